package motionplan

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRadius is matched by every error returned for a circle the arm cannot trace.
	ErrInvalidRadius = errors.New("radius must be between 0 and the reach of the arm")

	// ErrInvalidSampleCount is returned when a trajectory would have fewer than two samples.
	ErrInvalidSampleCount = errors.New("a circle needs at least two samples")

	// ErrEmptyTrajectory is returned when a motion loop is given no samples to follow.
	ErrEmptyTrajectory = errors.New("trajectory has no samples")
)

// InvalidRadiusError reports a circle radius that is negative, not a number, or larger than the reach.
type InvalidRadiusError struct {
	Radius float64
	Reach  float64
}

func (e *InvalidRadiusError) Error() string {
	return fmt.Sprintf("%s: radius %v, reach %v", ErrInvalidRadius, e.Radius, e.Reach)
}

// Is lets errors.Is match the sentinel.
func (e *InvalidRadiusError) Is(target error) bool {
	return target == ErrInvalidRadius
}

// NewInvalidRadiusError returns an error for a radius the arm cannot trace.
func NewInvalidRadiusError(radius, reach float64) error {
	return &InvalidRadiusError{Radius: radius, Reach: reach}
}

// NewInvalidReachError is returned when a circle is generated for an arm with no reach.
func NewInvalidReachError(reach float64) error {
	return errors.Errorf("reach must be a positive number, got %v", reach)
}

// NewSampleIndexError is returned when a sample index is outside the trajectory.
func NewSampleIndexError(index, length int) error {
	return errors.Errorf("sample index %d out of range for trajectory of %d samples", index, length)
}
