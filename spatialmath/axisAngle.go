package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// R4AA is an orientation given as a rotation of Theta radians about the axis (RX, RY, RZ).
// The axis does not need to be unit length; it is normalized before use.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns a zero rotation about +Z.
func NewR4AA() *R4AA {
	return &R4AA{RZ: 1}
}

// AxisAngles returns the orientation in axis angle representation.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns the unit quaternion of the rotation.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/index.htm
func (r4 *R4AA) Quaternion() quat.Number {
	axis := *r4
	axis.Normalize()
	sinA, cosA := math.Sincos(r4.Theta / 2)
	return quat.Number{Real: cosA, Imag: axis.RX * sinA, Jmag: axis.RY * sinA, Kmag: axis.RZ * sinA}
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// Normalize scales the axis onto the unit sphere. A zero axis becomes +Z.
func (r4 *R4AA) Normalize() {
	norm := math.Sqrt(r4.RX*r4.RX + r4.RY*r4.RY + r4.RZ*r4.RZ)
	if norm == 0 {
		r4.RX, r4.RY, r4.RZ = 0, 0, 1
		return
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
}
