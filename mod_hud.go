package lidar

// EnergyGauge mirrors the reservoir for display. It implements
// scan.EnergyDisplay.
type EnergyGauge struct {
	Max   int
	Value int
}

func (g *EnergyGauge) SetEnergyMax(max int)  { g.Max = max }
func (g *EnergyGauge) SetEnergy(current int) { g.Value = current }

// Fraction is the filled share of the gauge in [0,1].
func (g *EnergyGauge) Fraction() float32 {
	if g.Max <= 0 {
		return 0
	}
	f := float32(g.Value) / float32(g.Max)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
