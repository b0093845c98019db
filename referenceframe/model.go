package referenceframe

import (
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"go.viam.com/dhkin/spatialmath"
	"go.viam.com/dhkin/utils"
)

// World is the name of the base frame every chain is rooted at.
const World = "world"

// Limit represents the limits of motion for a joint, in radians.
type Limit struct {
	Min float64
	Max float64
}

// String prints the limit in degrees, which is how kinematics files express it.
func (l Limit) String() string {
	return fmt.Sprintf("[%.2f, %.2f] degrees", utils.RadToDeg(l.Min), utils.RadToDeg(l.Max))
}

func (l Limit) contains(value float64) bool {
	return value >= l.Min && value <= l.Max
}

// Unlimited is the limit of a revolute joint with no stops.
var Unlimited = Limit{Min: math.Inf(-1), Max: math.Inf(1)}

// Model is a serial chain of revolute DH links with joint limits.
type Model struct {
	name   string
	ids    []string
	links  JointParameters
	limits []Limit
}

// NewModel creates a model from DH links ordered base first. A nil limits slice leaves every
// joint unlimited; ids default to joint1, joint2, ....
func NewModel(name string, links JointParameters, limits []Limit, ids []string) (*Model, error) {
	if limits == nil {
		limits = make([]Limit, len(links))
		for i := range limits {
			limits[i] = Unlimited
		}
	}
	if len(limits) != len(links) {
		return nil, NewIncorrectDoFError(len(limits), len(links))
	}
	if ids == nil {
		ids = make([]string, len(links))
		for i := range ids {
			ids[i] = fmt.Sprintf("joint%d", i+1)
		}
	}
	if len(ids) != len(links) {
		return nil, NewIncorrectDoFError(len(ids), len(links))
	}
	for _, id := range ids {
		if id == World {
			return nil, NewReservedWordError("link", World)
		}
	}
	return &Model{
		name:   name,
		ids:    append([]string(nil), ids...),
		links:  links.Clone(),
		limits: append([]Limit(nil), limits...),
	}, nil
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// DoF returns the number of joints.
func (m *Model) DoF() int {
	return len(m.links)
}

// Links returns a copy of the DH links with their home joint values.
func (m *Model) Links() JointParameters {
	return m.links.Clone()
}

// LinkIDs returns the link names, base first.
func (m *Model) LinkIDs() []string {
	return append([]string(nil), m.ids...)
}

// Limits returns the joint limits in radians.
func (m *Model) Limits() []Limit {
	return append([]Limit(nil), m.limits...)
}

// JointParameters returns the DH table with each joint variable replaced by the matching input.
// Every out-of-bounds input is reported, combined into one error.
func (m *Model) JointParameters(inputs []Input) (JointParameters, error) {
	if len(inputs) != m.DoF() {
		return nil, NewIncorrectDoFError(len(inputs), m.DoF())
	}
	var errAll error
	for i, in := range inputs {
		if !m.limits[i].contains(in.Value) {
			multierr.AppendInto(&errAll, NewOOBError(in.Value, m.limits[i]))
		}
	}
	if errAll != nil {
		return nil, errAll
	}
	return m.links.WithThetas(InputsToFloats(inputs))
}

// Transform returns the pose of the last frame of the chain for the given inputs.
func (m *Model) Transform(inputs []Input) (spatialmath.Pose, error) {
	poses, err := m.ComputePoses(inputs)
	if err != nil {
		return nil, err
	}
	if len(poses) == 0 {
		return spatialmath.NewZeroPose(), nil
	}
	return poses[len(poses)-1], nil
}

// ComputePoses returns the pose of every frame of the chain for the given inputs.
func (m *Model) ComputePoses(inputs []Input) ([]spatialmath.Pose, error) {
	params, err := m.JointParameters(inputs)
	if err != nil {
		return nil, err
	}
	return ComputeForward(params), nil
}

// MarshalJSON serializes a Model in the DH kinematics file format.
func (m *Model) MarshalJSON() ([]byte, error) {
	cfg := ModelConfigJSON{
		Name:         m.name,
		KinParamType: "DH",
	}
	parent := World
	for i, link := range m.links {
		dh := DHParamConfig{
			ID:     m.ids[i],
			Parent: parent,
			A:      link.A,
			D:      link.D,
			Alpha:  link.Alpha,
		}
		if m.limits[i] != Unlimited {
			dh.Min = utils.RadToDeg(m.limits[i].Min)
			dh.Max = utils.RadToDeg(m.limits[i].Max)
		}
		cfg.DHParams = append(cfg.DHParams, dh)
		parent = m.ids[i]
	}
	return json.Marshal(cfg)
}
