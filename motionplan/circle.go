package motionplan

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/dhkin/utils"
)

// DefaultSampleCount is the number of samples in a generated circle when none is given.
const DefaultSampleCount = 100

// CircleSpec describes a circle in space. Beta tilts the circle and Gamma rotates it about
// the vertical; both are in radians.
type CircleSpec struct {
	Center r3.Vector `json:"center"`
	Radius float64   `json:"radius"`
	Beta   float64   `json:"beta"`
	Gamma  float64   `json:"gamma"`
}

// TrajectorySample is one point of a trajectory with the parameter angle it was generated at.
type TrajectorySample struct {
	Param float64   `json:"param"`
	Point r3.Vector `json:"point"`
}

// Trajectory is an immutable, ordered list of samples. A new circle means a new Trajectory.
type Trajectory struct {
	spec    CircleSpec
	samples []TrajectorySample
}

// NewTrajectory wraps samples that were produced elsewhere.
func NewTrajectory(samples []TrajectorySample) (*Trajectory, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyTrajectory
	}
	return &Trajectory{samples: append([]TrajectorySample(nil), samples...)}, nil
}

// Len returns the number of samples.
func (t *Trajectory) Len() int {
	return len(t.samples)
}

// At returns the sample at index i.
func (t *Trajectory) At(i int) TrajectorySample {
	return t.samples[i]
}

// Samples returns a copy of every sample.
func (t *Trajectory) Samples() []TrajectorySample {
	return append([]TrajectorySample(nil), t.samples...)
}

// Points returns the position of every sample.
func (t *Trajectory) Points() []r3.Vector {
	pts := make([]r3.Vector, len(t.samples))
	for i, s := range t.samples {
		pts[i] = s.Point
	}
	return pts
}

// Spec returns the circle the trajectory was generated from. It is the zero value for
// trajectories built with NewTrajectory.
func (t *Trajectory) Spec() CircleSpec {
	return t.spec
}

// GenerateCircle samples a circle at sampleCount parameter angles evenly spaced over [-pi, pi],
// both ends included, so the first and last samples coincide.
//
// Every point is offset by the unit vector (-sinβ·cosγ, sinβ·sinγ, cosβ) scaled by cos(α), where
// α = asin(radius / reach). This offset does not scale with the radius; it is kept as is.
func GenerateCircle(spec CircleSpec, reach float64, sampleCount int) (*Trajectory, error) {
	if !(reach > 0) {
		return nil, NewInvalidReachError(reach)
	}
	if math.IsNaN(spec.Radius) || spec.Radius < 0 || spec.Radius > reach {
		return nil, NewInvalidRadiusError(spec.Radius, reach)
	}
	if sampleCount < 2 {
		return nil, ErrInvalidSampleCount
	}

	alpha := math.Asin(spec.Radius / reach)
	cosA := math.Cos(alpha)
	sinB, cosB := math.Sincos(spec.Beta)
	sinG, cosG := math.Sincos(spec.Gamma)
	r := spec.Radius
	c := spec.Center

	params := utils.Linspace(-math.Pi, math.Pi, sampleCount)
	samples := make([]TrajectorySample, 0, sampleCount)
	for _, i := range params {
		sinI, cosI := math.Sincos(i)
		samples = append(samples, TrajectorySample{
			Param: i,
			Point: r3.Vector{
				X: c.X + r*cosB*cosG*cosI + r*sinG*sinI - cosA*sinB*cosG,
				Y: c.Y - r*cosB*sinG*cosI + r*cosG*sinI + cosA*sinB*sinG,
				Z: c.Z + r*sinB*cosI + cosA*cosB,
			},
		})
	}
	return &Trajectory{spec: spec, samples: samples}, nil
}
