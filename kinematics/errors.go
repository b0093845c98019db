package kinematics

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrUnreachableTarget is matched by every error returned for a target outside the work envelope.
var ErrUnreachableTarget = errors.New("coordinate outside work envelope")

// UnreachableTargetError reports a target whose elbow cosine falls outside [-1, 1].
type UnreachableTargetError struct {
	Target r3.Vector
	CosT3  float64
}

func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("%s: target (%.4f, %.4f, %.4f) needs cos(t3) = %.6f",
		ErrUnreachableTarget, e.Target.X, e.Target.Y, e.Target.Z, e.CosT3)
}

// Is lets errors.Is match the sentinel.
func (e *UnreachableTargetError) Is(target error) bool {
	return target == ErrUnreachableTarget
}

// NewUnreachableTargetError returns an error for a target the arm cannot reach.
func NewUnreachableTargetError(target r3.Vector, cosT3 float64) error {
	return &UnreachableTargetError{Target: target, CosT3: cosT3}
}

// NewUnsupportedGeometryError is returned when a DH table is not the elbow arrangement.
func NewUnsupportedGeometryError(joint int, want string) error {
	return errors.Errorf("joint %d is not an elbow arm joint, want %s", joint, want)
}

// NewUnknownBranchError is returned when parsing an elbow branch name fails.
func NewUnknownBranchError(name string) error {
	return errors.Errorf("unknown elbow branch %q, want elbow_up or elbow_down", name)
}
