package lidar

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid lidar config")

// LidarConfig holds the tunables of the scanner. Angles are degrees,
// distances world units, scan times are per full sweep.
type LidarConfig struct {
	BeamsScan          int           `yaml:"beams_scan"`
	BeamsFocused       int           `yaml:"beams_focused"`
	MaxBeamDistance    float32       `yaml:"max_beam_distance"`
	LineWidth          float32       `yaml:"line_width"`
	MaxEnergy          int           `yaml:"max_energy"`
	EnergyRefresh      int           `yaml:"energy_refresh"`
	StartingEnergy     int           `yaml:"starting_energy"`
	PercentageVariance float32       `yaml:"percentage_variance"`
	HorizontalSteps    int           `yaml:"horizontal_steps"`
	VerticalSteps      int           `yaml:"vertical_steps"`
	HorizontalRange    float32       `yaml:"horizontal_range"`
	VerticalRange      float32       `yaml:"vertical_range"`
	HorizontalScanTime time.Duration `yaml:"horizontal_scan_time"`
	VerticalScanTime   time.Duration `yaml:"vertical_scan_time"`
	FocusedRadius      float32       `yaml:"focused_radius"`
	Mode               string        `yaml:"mode"`
	EnergyLevel        string        `yaml:"energy_level"`
	CasterPosition     mgl32.Vec3    `yaml:"caster_position"`
	CasterYaw          float32       `yaml:"caster_yaw"`
	MoveSpeed          float32       `yaml:"move_speed"`
}

func DefaultLidarConfig() LidarConfig {
	return LidarConfig{
		BeamsScan:          30,
		BeamsFocused:       10,
		MaxBeamDistance:    50,
		LineWidth:          0.02,
		MaxEnergy:          1000,
		EnergyRefresh:      2,
		StartingEnergy:     1000,
		PercentageVariance: 0.3,
		HorizontalSteps:    90,
		VerticalSteps:      30,
		HorizontalRange:    90,
		VerticalRange:      40,
		HorizontalScanTime: time.Second,
		VerticalScanTime:   time.Second,
		FocusedRadius:      5,
		Mode:               "wide",
		EnergyLevel:        "low",
		CasterPosition:     mgl32.Vec3{0, 1.5, 0},
		MoveSpeed:          5,
	}
}

// LoadLidarConfig reads path over the defaults, so a file only needs the
// keys it changes.
func LoadLidarConfig(path string) (LidarConfig, error) {
	cfg := DefaultLidarConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read lidar config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse lidar config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c LidarConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.BeamsScan >= 1 && c.BeamsScan <= 90, "beams_scan must be in [1,90], got %d", c.BeamsScan)
	check(c.BeamsFocused >= 1 && c.BeamsFocused <= 45, "beams_focused must be in [1,45], got %d", c.BeamsFocused)
	check(c.PercentageVariance >= 0 && c.PercentageVariance <= 1, "percentage_variance must be in [0,1], got %v", c.PercentageVariance)
	check(c.MaxBeamDistance > 0 && c.MaxBeamDistance <= MaxRayDistance,
		"max_beam_distance must be in (0,%g], got %v", MaxRayDistance, c.MaxBeamDistance)
	check(c.MaxEnergy > 0, "max_energy must be positive")
	check(c.EnergyRefresh >= 0, "energy_refresh must not be negative")
	check(c.StartingEnergy >= 0, "starting_energy must not be negative")
	check(c.HorizontalSteps > 0 && c.VerticalSteps > 0, "scan steps must be positive")
	check(c.HorizontalScanTime >= 0 && c.VerticalScanTime >= 0, "scan times must not be negative")
	check(c.MoveSpeed >= 0 && c.MoveSpeed <= MaxRayDistance, "move_speed must be in [0,%g], got %v", MaxRayDistance, c.MoveSpeed)
	check(c.FocusedRadius >= 0, "focused_radius must not be negative")

	if _, err := scan.ParseScanMode(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if _, err := scan.ParseEnergyLevel(c.EnergyLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// SchedulerConfig converts c for the scan package. Call Validate first.
func (c LidarConfig) SchedulerConfig() scan.SchedulerConfig {
	mode, _ := scan.ParseScanMode(c.Mode)
	level, _ := scan.ParseEnergyLevel(c.EnergyLevel)
	return scan.SchedulerConfig{
		Wide: scan.WideParams{
			Beams:              c.BeamsScan,
			HorizontalSteps:    c.HorizontalSteps,
			VerticalSteps:      c.VerticalSteps,
			HorizontalRange:    c.HorizontalRange,
			VerticalRange:      c.VerticalRange,
			HorizontalScanTime: c.HorizontalScanTime,
			VerticalScanTime:   c.VerticalScanTime,
			Variance:           c.PercentageVariance,
		},
		Focused: scan.FocusedParams{
			Beams:  c.BeamsFocused,
			Radius: c.FocusedRadius,
		},
		Mode:  mode,
		Level: level,
	}
}

// Pose places the caster at CasterPosition turned CasterYaw degrees about +Y.
func (c LidarConfig) Pose() scan.Pose {
	return scan.Pose{
		Position: c.CasterPosition,
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(c.CasterYaw), mgl32.Vec3{0, 1, 0}),
	}
}
