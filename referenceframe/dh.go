// Package referenceframe does the math of translating between the reference frames of a serial
// arm described by Denavit-Hartenberg parameters.
package referenceframe

import (
	"github.com/golang/geo/r3"

	"go.viam.com/dhkin/spatialmath"
)

// DHParam holds the Denavit-Hartenberg parameters of one joint. Theta is the joint variable;
// D, A and Alpha are fixed link geometry. Angles are in radians.
type DHParam struct {
	Theta float64 `json:"theta"`
	D     float64 `json:"d"`
	A     float64 `json:"a"`
	Alpha float64 `json:"alpha"`
}

// Transform returns the pose of this link's frame relative to the previous one.
func (p DHParam) Transform() spatialmath.Pose {
	return spatialmath.NewPoseFromDH(p.Theta, p.D, p.A, p.Alpha)
}

// WithTheta returns a copy of the parameters with the joint variable replaced.
func (p DHParam) WithTheta(theta float64) DHParam {
	p.Theta = theta
	return p
}

// JointParameters is the ordered list of DH parameters of a serial chain, base first.
type JointParameters []DHParam

// Clone returns a copy that does not alias the receiver.
func (jp JointParameters) Clone() JointParameters {
	return append(JointParameters(nil), jp...)
}

// Thetas returns the joint variables in order.
func (jp JointParameters) Thetas() []float64 {
	thetas := make([]float64, len(jp))
	for i, p := range jp {
		thetas[i] = p.Theta
	}
	return thetas
}

// WithThetas returns a copy of the parameters with every joint variable replaced. The fixed
// geometry of each link is carried over unchanged.
func (jp JointParameters) WithThetas(thetas []float64) (JointParameters, error) {
	if len(thetas) != len(jp) {
		return nil, NewIncorrectDoFError(len(thetas), len(jp))
	}
	out := make(JointParameters, len(jp))
	for i, p := range jp {
		out[i] = p.WithTheta(thetas[i])
	}
	return out, nil
}

// ComputeForward returns the pose of every frame of the chain relative to the base, frame 1
// first. The poses come from a single left-to-right fold over the links, so frame N is the
// product of link transforms 1..N with link 1 leftmost.
func ComputeForward(params JointParameters) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, 0, len(params))
	composed := spatialmath.NewZeroPose()
	for _, link := range params {
		composed = spatialmath.Compose(composed, link.Transform())
		poses = append(poses, composed)
	}
	return poses
}

// FrameTransform returns the cumulative transform of the given frame, numbered from 1, relative
// to the base.
func FrameTransform(params JointParameters, frame int) (spatialmath.Pose, error) {
	if frame < 1 || frame > len(params) {
		return nil, NewFrameIndexError(frame, len(params))
	}
	poses := ComputeForward(params[:frame])
	return poses[frame-1], nil
}

// FramePoints returns the origin of the base followed by the origin of every frame, the polyline
// a renderer draws for the arm.
func FramePoints(poses []spatialmath.Pose) []r3.Vector {
	pts := make([]r3.Vector, 0, len(poses)+1)
	pts = append(pts, r3.Vector{})
	for _, p := range poses {
		pts = append(pts, p.Point())
	}
	return pts
}
