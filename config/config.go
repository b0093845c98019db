// Package config reads the settings of an arm and the circle it traces from a JSON file.
package config

import (
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/dhkin/components/arm"
	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/utils"
)

const (
	// DefaultRadius is the radius of the traced circle when none is configured.
	DefaultRadius = 2.
	// DefaultInterval is the time between two steps of the motion loop.
	DefaultInterval = 10 * time.Millisecond
)

// DefaultCenter is the center of the traced circle when none is configured.
var DefaultCenter = r3.Vector{X: 1, Y: 0, Z: 1}

// Config describes an arm and the circle it traces.
type Config struct {
	Arm        arm.Config       `json:"arm"`
	Trajectory TrajectoryConfig `json:"trajectory"`
	Loop       LoopConfig       `json:"loop"`
	Debug      bool             `json:"debug,omitempty"`

	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-"`
}

// Validate ensures all parts of the config are valid. Every invalid section is reported.
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Arm.Validate("arm"),
		c.Trajectory.Validate("trajectory"),
		c.Loop.Validate("loop"),
	)
}

// TrajectoryConfig describes the circle to trace. Beta and Gamma are in radians; BetaDegs and
// GammaDegs may be given instead.
type TrajectoryConfig struct {
	Center    *r3.Vector `json:"center,omitempty"`
	Radius    *float64   `json:"radius,omitempty"`
	Beta      float64    `json:"beta,omitempty"`
	Gamma     float64    `json:"gamma,omitempty"`
	BetaDegs  *float64   `json:"beta_degs,omitempty"`
	GammaDegs *float64   `json:"gamma_degs,omitempty"`
	Samples   int        `json:"samples,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (tc *TrajectoryConfig) Validate(path string) error {
	var errAll error
	if tc.Radius != nil && (math.IsNaN(*tc.Radius) || *tc.Radius < 0) {
		multierr.AppendInto(&errAll, errors.Errorf(`"radius" must not be negative, got %v`, *tc.Radius))
	}
	if tc.BetaDegs != nil && tc.Beta != 0 {
		multierr.AppendInto(&errAll, errors.New(`only one of "beta" and "beta_degs" may be set`))
	}
	if tc.GammaDegs != nil && tc.Gamma != 0 {
		multierr.AppendInto(&errAll, errors.New(`only one of "gamma" and "gamma_degs" may be set`))
	}
	spec := tc.CircleSpec()
	if math.Abs(spec.Beta) > math.Pi {
		multierr.AppendInto(&errAll, errors.Errorf(`"beta" must be within [-pi, pi], got %v`, spec.Beta))
	}
	if math.Abs(spec.Gamma) > math.Pi {
		multierr.AppendInto(&errAll, errors.Errorf(`"gamma" must be within [-pi, pi], got %v`, spec.Gamma))
	}
	if tc.Samples != 0 && tc.Samples < 2 {
		multierr.AppendInto(&errAll, errors.Errorf(`"samples" must be at least 2, got %d`, tc.Samples))
	}
	if errAll != nil {
		return utils.NewConfigValidationError(path, errAll)
	}
	return nil
}

// CircleSpec returns the configured circle with defaults filled in.
func (tc *TrajectoryConfig) CircleSpec() motionplan.CircleSpec {
	spec := motionplan.CircleSpec{
		Center: DefaultCenter,
		Radius: DefaultRadius,
		Beta:   tc.Beta,
		Gamma:  tc.Gamma,
	}
	if tc.Center != nil {
		spec.Center = *tc.Center
	}
	if tc.Radius != nil {
		spec.Radius = *tc.Radius
	}
	if tc.BetaDegs != nil {
		spec.Beta = utils.DegToRad(*tc.BetaDegs)
	}
	if tc.GammaDegs != nil {
		spec.Gamma = utils.DegToRad(*tc.GammaDegs)
	}
	return spec
}

// SampleCount returns the configured number of samples, or the default.
func (tc *TrajectoryConfig) SampleCount() int {
	if tc.Samples == 0 {
		return motionplan.DefaultSampleCount
	}
	return tc.Samples
}

// LoopConfig controls how the motion loop is driven.
type LoopConfig struct {
	Interval time.Duration `json:"interval,omitempty"`
	// Steps is the number of steps to run. 0 means one lap of the trajectory.
	Steps int `json:"steps,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (lc *LoopConfig) Validate(path string) error {
	var errAll error
	if lc.Interval < 0 {
		multierr.AppendInto(&errAll, errors.Errorf(`"interval" must not be negative, got %v`, lc.Interval))
	}
	if lc.Steps < 0 {
		multierr.AppendInto(&errAll, errors.Errorf(`"steps" must not be negative, got %d`, lc.Steps))
	}
	if errAll != nil {
		return utils.NewConfigValidationError(path, errAll)
	}
	return nil
}

// StepInterval returns the configured interval, or the default.
func (lc *LoopConfig) StepInterval() time.Duration {
	if lc.Interval == 0 {
		return DefaultInterval
	}
	return lc.Interval
}
