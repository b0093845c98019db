// Package spatialmath defines spatial mathematical operations: homogeneous transforms,
// orientations and dual quaternions.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Pose represents a 6dof pose, position and orientation, with respect to its parent frame.
// The underlying representation is a 4x4 homogeneous transform.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
	Matrix() mgl64.Mat4
}

// matrixPose is a Pose backed by a homogeneous transform. mgl64 matrices are column-major, so
// At(row, col) is used everywhere instead of indexing.
type matrixPose struct {
	m mgl64.Mat4
}

// NewZeroPose returns a pose at (0,0,0) with the same orientation as its parent.
func NewZeroPose() Pose {
	return &matrixPose{mgl64.Ident4()}
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &matrixPose{mgl64.Translate3D(point.X, point.Y, point.Z)}
}

// NewPoseFromMatrix wraps a homogeneous transform. The bottom row is expected to be (0, 0, 0, 1).
func NewPoseFromMatrix(m mgl64.Mat4) Pose {
	return &matrixPose{m}
}

// NewPoseFromOrientation takes in a position and orientation and returns a Pose.
func NewPoseFromOrientation(point r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(point)
	}
	rm := o.RotationMatrix()
	m := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, rm.At(row, col))
		}
	}
	m.Set(0, 3, point.X)
	m.Set(1, 3, point.Y)
	m.Set(2, 3, point.Z)
	return &matrixPose{m}
}

// NewPoseFromDH creates a pose from one set of Denavit-Hartenberg parameters: the rotation theta
// about the previous z axis, the offset d along it, the length a along the new x axis and the
// twist alpha about it.
func NewPoseFromDH(theta, d, a, alpha float64) Pose {
	sinT, cosT := math.Sincos(theta)
	sinA, cosA := math.Sincos(alpha)
	m := mgl64.Mat4{}
	m.Set(0, 0, cosT)
	m.Set(0, 1, -cosA*sinT)
	m.Set(0, 2, sinA*sinT)
	m.Set(0, 3, a*cosT)

	m.Set(1, 0, sinT)
	m.Set(1, 1, cosA*cosT)
	m.Set(1, 2, -sinA*cosT)
	m.Set(1, 3, a*sinT)

	m.Set(2, 1, sinA)
	m.Set(2, 2, cosA)
	m.Set(2, 3, d)

	m.Set(3, 3, 1)
	return &matrixPose{m}
}

// Point returns the translation component of the transform.
func (p *matrixPose) Point() r3.Vector {
	return r3.Vector{X: p.m.At(0, 3), Y: p.m.At(1, 3), Z: p.m.At(2, 3)}
}

// Orientation returns the rotation component of the transform.
func (p *matrixPose) Orientation() Orientation {
	rm := &RotationMatrix{}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rm.mat[3*row+col] = p.m.At(row, col)
		}
	}
	return rm
}

// Matrix returns a copy of the homogeneous transform.
func (p *matrixPose) Matrix() mgl64.Mat4 {
	return p.m
}

func (p *matrixPose) String() string {
	pt := p.Point()
	return fmt.Sprintf("{X:%.6f Y:%.6f Z:%.6f}", pt.X, pt.Y, pt.Z)
}

// Compose treats Poses as functions A(x) and B(x) and produces a new function C(x) = A(B(x)).
// It right-multiplies the transform of a by the transform of b.
func Compose(a, b Pose) Pose {
	return &matrixPose{a.Matrix().Mul4(b.Matrix())}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same,
// comparing every entry of the transforms within epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	ma, mb := a.Matrix(), b.Matrix()
	for i := range ma {
		if math.Abs(ma[i]-mb[i]) > epsilon {
			return false
		}
	}
	return true
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
// The default epsilon matches the round-trip tolerance of the closed form solver.
func PoseAlmostCoincident(a, b Pose) bool {
	return PoseAlmostCoincidentEps(a, b, 1e-9)
}

// PoseAlmostCoincidentEps will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
func PoseAlmostCoincidentEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}
