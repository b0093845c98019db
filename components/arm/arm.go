// Package arm contains the elbow manipulator: three revolute joints described by a DH table, moved
// either joint by joint or to a cartesian target through the closed form solver.
package arm

import (
	_ "embed"
	"fmt"
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/logging"
	"go.viam.com/dhkin/referenceframe"
	"go.viam.com/dhkin/spatialmath"
	"go.viam.com/dhkin/utils"
)

//go:embed elbow_model.json
var elbowJSON []byte

// DefaultModel returns the kinematic model of the elbow arm shipped with this package.
func DefaultModel(name string) (*referenceframe.Model, error) {
	return referenceframe.UnmarshalModelJSON(elbowJSON, name)
}

// Manipulator is a three joint elbow arm. It owns the DH table and the link lengths; the joint
// variables are rewritten on every move while the geometry stays fixed.
type Manipulator struct {
	name   string
	logger logging.Logger

	mu      sync.RWMutex
	model   *referenceframe.Model
	lengths kinematics.LinkLengths
	params  referenceframe.JointParameters
	branch  kinematics.Branch
}

// NewManipulator returns an arm with the given link lengths, every joint at zero and limited to [-180, 180] degrees.
func NewManipulator(name string, lengths kinematics.LinkLengths, logger logging.Logger) (*Manipulator, error) {
	if err := lengths.Validate(name); err != nil {
		return nil, err
	}
	limits := []referenceframe.Limit{{Min: -math.Pi, Max: math.Pi}, {Min: -math.Pi, Max: math.Pi}, {Min: -math.Pi, Max: math.Pi}}
	model, err := referenceframe.NewModel(name, lengths.JointParameters(), limits, []string{"shoulder", "upper_arm", "forearm"})
	if err != nil {
		return nil, err
	}
	return newManipulator(model, lengths, logger), nil
}

// NewManipulatorFromModel returns an arm built from a kinematic model. The model must be the
// elbow arrangement; its link lengths are read back from the DH table.
func NewManipulatorFromModel(model *referenceframe.Model, logger logging.Logger) (*Manipulator, error) {
	lengths, err := kinematics.LengthsFromJointParameters(model.Links())
	if err != nil {
		return nil, errors.Wrapf(err, "model %q", model.Name())
	}
	return newManipulator(model, lengths, logger), nil
}

func newManipulator(model *referenceframe.Model, lengths kinematics.LinkLengths, logger logging.Logger) *Manipulator {
	return &Manipulator{
		name:    model.Name(),
		logger:  logger,
		model:   model,
		lengths: lengths,
		params:  model.Links(),
		branch:  kinematics.ElbowUp,
	}
}

// Name returns the name of the arm.
func (m *Manipulator) Name() string {
	return m.name
}

// Model returns the kinematic model the arm was built from.
func (m *Manipulator) Model() *referenceframe.Model {
	return m.model
}

// Lengths returns the link lengths.
func (m *Manipulator) Lengths() kinematics.LinkLengths {
	return m.lengths
}

// Branch returns the elbow branch used for cartesian moves.
func (m *Manipulator) Branch() kinematics.Branch {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.branch
}

// SetBranch changes the elbow branch used for cartesian moves.
func (m *Manipulator) SetBranch(b kinematics.Branch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branch = b
}

// JointParameters returns a copy of the current DH table.
func (m *Manipulator) JointParameters() referenceframe.JointParameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params.Clone()
}

// JointAngles returns the current joint variables.
func (m *Manipulator) JointAngles() kinematics.JointAngles {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return kinematics.JointAngles{T1: m.params[0].Theta, T2: m.params[1].Theta, T3: m.params[2].Theta}
}

// MoveToJointPositions sets the joints. Angles outside the joint limits leave the arm where it is.
func (m *Manipulator) MoveToJointPositions(angles kinematics.JointAngles) error {
	params, err := m.model.JointParameters(angles.Inputs())
	if err != nil {
		return errors.Wrap(err, "cannot move arm")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = params
	m.logger.Debugw("moved joints", "t1", angles.T1, "t2", angles.T2, "t3", angles.T3)
	return nil
}

// MoveToPosition solves for the joint angles that put the end of the forearm at target and moves
// there. An unreachable target returns an error and leaves the joints unchanged.
func (m *Manipulator) MoveToPosition(target r3.Vector) (kinematics.JointAngles, error) {
	angles, err := kinematics.Solve(target, m.lengths, m.Branch())
	if err != nil {
		return kinematics.JointAngles{}, err
	}
	if err := m.MoveToJointPositions(angles); err != nil {
		return kinematics.JointAngles{}, err
	}
	return angles, nil
}

// ComputeForward returns the pose of frames 1 to 3 relative to the base for the current joints.
func (m *Manipulator) ComputeForward() []spatialmath.Pose {
	return referenceframe.ComputeForward(m.JointParameters())
}

// EndPosition returns the position of the end of the forearm.
func (m *Manipulator) EndPosition() r3.Vector {
	poses := m.ComputeForward()
	return poses[len(poses)-1].Point()
}

// String prints out a table of each frame of the arm, with columns of name, joint angle,
// translation and orientation.
func (m *Manipulator) String() string {
	ids := m.model.LinkIDs()
	params := m.JointParameters()
	poses := referenceframe.ComputeForward(params)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Theta", "Translation", "Orientation"})
	t.AppendRow([]interface{}{"0", referenceframe.World, "", "X:0.000, Y:0.000, Z:0.000", ""})
	for i, pose := range poses {
		tra := pose.Point()
		ori := pose.Orientation().AxisAngles()
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i+1),
			ids[i],
			fmt.Sprintf("%.2f", utils.RadToDeg(params[i].Theta)),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf("TH:%.2f, X:%.2f, Y:%.2f, Z:%.2f", utils.RadToDeg(ori.Theta), ori.RX, ori.RY, ori.RZ),
		})
	}
	return t.Render()
}
