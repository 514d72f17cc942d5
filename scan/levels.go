package scan

import "fmt"

type ScanMode int

const (
	ModeWide ScanMode = iota
	ModeFocused
)

var scanModes = []ScanMode{ModeWide, ModeFocused}

// Next cycles to the following mode, wrapping around.
func (m ScanMode) Next() ScanMode {
	for i, mode := range scanModes {
		if mode == m {
			return scanModes[(i+1)%len(scanModes)]
		}
	}
	return scanModes[0]
}

func (m ScanMode) String() string {
	switch m {
	case ModeWide:
		return "wide"
	case ModeFocused:
		return "focused"
	}
	return fmt.Sprintf("ScanMode(%d)", int(m))
}

// ParseScanMode accepts the names produced by String.
func ParseScanMode(s string) (ScanMode, error) {
	for _, mode := range scanModes {
		if mode.String() == s {
			return mode, nil
		}
	}
	return ModeWide, fmt.Errorf("unknown scan mode %q", s)
}

// EnergyLevel is the per-beam cost, also used as the energy delivered by each hit.
type EnergyLevel int

const (
	EnergyLow    EnergyLevel = 5
	EnergyMedium EnergyLevel = 10
	EnergyHigh   EnergyLevel = 20
)

var energyLevels = []EnergyLevel{EnergyLow, EnergyMedium, EnergyHigh}

func (l EnergyLevel) Next() EnergyLevel {
	for i, level := range energyLevels {
		if level == l {
			return energyLevels[(i+1)%len(energyLevels)]
		}
	}
	return energyLevels[0]
}

func (l EnergyLevel) String() string {
	switch l {
	case EnergyLow:
		return "low"
	case EnergyMedium:
		return "medium"
	case EnergyHigh:
		return "high"
	}
	return fmt.Sprintf("EnergyLevel(%d)", int(l))
}

func ParseEnergyLevel(s string) (EnergyLevel, error) {
	for _, level := range energyLevels {
		if level.String() == s {
			return level, nil
		}
	}
	return EnergyLow, fmt.Errorf("unknown energy level %q", s)
}
