package tracker

import (
	"fmt"
	"math"
)

const (
	MinDT      = 0.005 // seconds
	MaxDT      = 0.06
	FallbackDT = 0.016 // first sample ever, no hint

	DefaultDeadband               = 0.12
	DefaultVelocityDamping        = 4.0 // 1/s
	DefaultPositionScale          = 1.0
	DefaultMaxVelocity            = 3.5
	DefaultMaxPosition            = 2.0
	DefaultStationaryThreshold    = 0.08
	DefaultStationaryFramesToZero = 10
)

// Config holds the filter tuning. It is not modified after the Tracker is built.
type Config struct {
	Deadband               float64
	VelocityDamping        float64
	PositionScale          float64
	MaxVelocity            float64
	MaxPosition            float64
	StationaryThreshold    float64
	StationaryFramesToZero int
}

func DefaultConfig() Config {
	return Config{
		Deadband:               DefaultDeadband,
		VelocityDamping:        DefaultVelocityDamping,
		PositionScale:          DefaultPositionScale,
		MaxVelocity:            DefaultMaxVelocity,
		MaxPosition:            DefaultMaxPosition,
		StationaryThreshold:    DefaultStationaryThreshold,
		StationaryFramesToZero: DefaultStationaryFramesToZero,
	}
}

// Validate checks that every value is finite, thresholds are non-negative
// and both limits positive.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"deadband", c.Deadband},
		{"velocity damping", c.VelocityDamping},
		{"position scale", c.PositionScale},
		{"max velocity", c.MaxVelocity},
		{"max position", c.MaxPosition},
		{"stationary threshold", c.StationaryThreshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.v)
		}
	}
	switch {
	case c.Deadband < 0:
		return fmt.Errorf("deadband must be >= 0, got %v", c.Deadband)
	case c.VelocityDamping < 0:
		return fmt.Errorf("velocity damping must be >= 0, got %v", c.VelocityDamping)
	case c.PositionScale < 0:
		return fmt.Errorf("position scale must be >= 0, got %v", c.PositionScale)
	case c.StationaryThreshold < 0:
		return fmt.Errorf("stationary threshold must be >= 0, got %v", c.StationaryThreshold)
	case c.StationaryFramesToZero < 0:
		return fmt.Errorf("stationary frames must be >= 0, got %d", c.StationaryFramesToZero)
	case c.MaxVelocity <= 0:
		return fmt.Errorf("max velocity must be > 0, got %v", c.MaxVelocity)
	case c.MaxPosition <= 0:
		return fmt.Errorf("max position must be > 0, got %v", c.MaxPosition)
	}
	return nil
}
