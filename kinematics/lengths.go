// Package kinematics solves the inverse kinematics of a three joint elbow arm in closed form.
package kinematics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/dhkin/referenceframe"
	"go.viam.com/dhkin/utils"
)

// LinkLengths are the fixed segment lengths of the elbow arm. Length1 is the shoulder height,
// Length2 the upper arm and Length3 the forearm.
type LinkLengths struct {
	Length1 float64 `json:"length1"`
	Length2 float64 `json:"length2"`
	Length3 float64 `json:"length3"`
}

// Validate ensures every length is a positive finite number.
func (l LinkLengths) Validate(path string) error {
	var errAll error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"length1", l.Length1},
		{"length2", l.Length2},
		{"length3", l.Length3},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 1) {
			multierr.AppendInto(&errAll, errors.Errorf("%q must be a positive number, got %v", f.name, f.value))
		}
	}
	if errAll != nil {
		return utils.NewConfigValidationError(path, errAll)
	}
	return nil
}

// Reach is the furthest the wrist can be from the shoulder.
func (l LinkLengths) Reach() float64 {
	return l.Length2 + l.Length3
}

// MinReach is the closest the wrist can be to the shoulder.
func (l LinkLengths) MinReach() float64 {
	return math.Abs(l.Length2 - l.Length3)
}

// Shoulder is the position of the first frame, the point the arm's reach is measured from.
func (l LinkLengths) Shoulder() (x, y, z float64) {
	return 0, 0, l.Length1
}

// JointParameters is the DH table of the elbow arm with every joint at zero.
//
//	joint | theta | d       | a       | alpha
//	1     | t1    | length1 | 0       | pi/2
//	2     | t2    | 0       | length2 | 0
//	3     | t3    | 0       | length3 | 0
func (l LinkLengths) JointParameters() referenceframe.JointParameters {
	return referenceframe.JointParameters{
		{D: l.Length1, Alpha: math.Pi / 2},
		{A: l.Length2},
		{A: l.Length3},
	}
}

// LengthsFromJointParameters recovers the link lengths from a DH table, checking that the table is the
// elbow arrangement this package solves.
func LengthsFromJointParameters(params referenceframe.JointParameters) (LinkLengths, error) {
	if len(params) != 3 {
		return LinkLengths{}, referenceframe.NewIncorrectDoFError(len(params), 3)
	}
	const tol = 1e-9
	shoulder, upper, fore := params[0], params[1], params[2]
	if !utils.Float64AlmostEqual(shoulder.A, 0, tol) || !utils.Float64AlmostEqual(shoulder.Alpha, math.Pi/2, tol) {
		return LinkLengths{}, NewUnsupportedGeometryError(1, "a = 0 and alpha = pi/2")
	}
	if !utils.Float64AlmostEqual(upper.D, 0, tol) || !utils.Float64AlmostEqual(upper.Alpha, 0, tol) {
		return LinkLengths{}, NewUnsupportedGeometryError(2, "d = 0 and alpha = 0")
	}
	if !utils.Float64AlmostEqual(fore.D, 0, tol) || !utils.Float64AlmostEqual(fore.Alpha, 0, tol) {
		return LinkLengths{}, NewUnsupportedGeometryError(3, "d = 0 and alpha = 0")
	}
	lengths := LinkLengths{Length1: shoulder.D, Length2: upper.A, Length3: fore.A}
	if err := lengths.Validate("dhParams"); err != nil {
		return LinkLengths{}, err
	}
	return lengths, nil
}

func (l LinkLengths) String() string {
	return fmt.Sprintf("{%g %g %g}", l.Length1, l.Length2, l.Length3)
}
