package motionplan

import (
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/logging"
	"go.viam.com/dhkin/spatialmath"
)

// Mover is an arm that can be sent to a cartesian target and report its frames.
// *arm.Manipulator satisfies it.
type Mover interface {
	MoveToPosition(target r3.Vector) (kinematics.JointAngles, error)
	JointAngles() kinematics.JointAngles
	ComputeForward() []spatialmath.Pose
}

// StepResult is what one step of the motion loop did.
type StepResult struct {
	// Index is the sample that was attempted.
	Index  int
	Sample TrajectorySample
	// Angles are the joint angles after the step. They are the previous angles when Err is set.
	Angles kinematics.JointAngles
	// Poses are frames 1 to 3 after the step.
	Poses []spatialmath.Pose
	// Err is set when the arm did not move to the sample.
	Err error
}

// Reached reports whether the arm moved to the sample.
func (r StepResult) Reached() bool {
	return r.Err == nil
}

// Unreachable reports whether the sample lies outside the work envelope of the arm. A sample
// inside the envelope can still fail, e.g. on a joint limit.
func (r StepResult) Unreachable() bool {
	return errors.Is(r.Err, kinematics.ErrUnreachableTarget)
}

// EndPosition is the position of the last frame after the step.
func (r StepResult) EndPosition() r3.Vector {
	if len(r.Poses) == 0 {
		return r3.Vector{}
	}
	return r.Poses[len(r.Poses)-1].Point()
}

// Advance moves the arm to the sample at currentIndex and returns the arm's frames together
// with the index of the next sample, wrapping to 0 after the last one. An unreachable sample
// leaves the arm where it was; its error is returned alongside the unchanged frames and the
// index still advances.
func Advance(arm Mover, traj *Trajectory, currentIndex int) ([]spatialmath.Pose, int, error) {
	if traj == nil || traj.Len() == 0 {
		return nil, 0, ErrEmptyTrajectory
	}
	if currentIndex < 0 || currentIndex >= traj.Len() {
		return nil, 0, NewSampleIndexError(currentIndex, traj.Len())
	}
	_, err := arm.MoveToPosition(traj.At(currentIndex).Point)
	next := (currentIndex + 1) % traj.Len()
	return arm.ComputeForward(), next, err
}

// MotionLoop walks an arm around a trajectory one sample per step.
type MotionLoop struct {
	arm    Mover
	logger logging.Logger

	mu    sync.Mutex
	traj  *Trajectory
	index int
}

// NewMotionLoop returns a loop that starts at the first sample of traj.
func NewMotionLoop(arm Mover, traj *Trajectory, logger logging.Logger) (*MotionLoop, error) {
	if traj == nil || traj.Len() == 0 {
		return nil, ErrEmptyTrajectory
	}
	return &MotionLoop{arm: arm, traj: traj, logger: logger}, nil
}

// Index returns the index of the sample the next step will attempt.
func (ml *MotionLoop) Index() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.index
}

// Trajectory returns the trajectory being followed.
func (ml *MotionLoop) Trajectory() *Trajectory {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.traj
}

// SetTrajectory swaps in a regenerated trajectory. The position in the loop is kept, wrapped
// into the length of the new trajectory.
func (ml *MotionLoop) SetTrajectory(traj *Trajectory) error {
	if traj == nil || traj.Len() == 0 {
		return ErrEmptyTrajectory
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.traj = traj
	ml.index %= traj.Len()
	return nil
}

// Step attempts the current sample and moves on to the next one. Samples the arm cannot move to
// are logged and skipped; the arm keeps its previous joint angles.
func (ml *MotionLoop) Step() StepResult {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	idx := ml.index
	sample := ml.traj.At(idx)
	poses, next, err := Advance(ml.arm, ml.traj, idx)
	switch {
	case err == nil:
	case errors.Is(err, kinematics.ErrUnreachableTarget):
		ml.logger.Warnw("coordinate outside work envelope",
			"index", idx, "x", sample.Point.X, "y", sample.Point.Y, "z", sample.Point.Z, "error", err)
	default:
		ml.logger.Warnw("cannot move to sample",
			"index", idx, "x", sample.Point.X, "y", sample.Point.Y, "z", sample.Point.Z, "error", err)
	}
	ml.index = next
	return StepResult{
		Index:  idx,
		Sample: sample,
		Angles: ml.arm.JointAngles(),
		Poses:  poses,
		Err:    err,
	}
}
