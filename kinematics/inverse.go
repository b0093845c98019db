package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/dhkin/referenceframe"
	"go.viam.com/dhkin/utils"
)

// boundaryTolerance absorbs rounding for targets lying exactly on the reach shell. It bounds
// |cos t3| - 1, so a target up to about 1e-12 of the link lengths outside the shell still solves.
const boundaryTolerance = 1e-12

// Branch selects one of the two elbow configurations that reach the same point.
type Branch int

const (
	// ElbowUp takes the positive root for sin(t3).
	ElbowUp Branch = iota
	// ElbowDown takes the negative root for sin(t3).
	ElbowDown
)

func (b Branch) String() string {
	switch b {
	case ElbowUp:
		return "elbow_up"
	case ElbowDown:
		return "elbow_down"
	default:
		return "unknown"
	}
}

// BranchFromString parses the names printed by Branch.String. An empty string is ElbowUp.
func BranchFromString(s string) (Branch, error) {
	switch s {
	case "", "elbow_up", "up":
		return ElbowUp, nil
	case "elbow_down", "down":
		return ElbowDown, nil
	default:
		return ElbowUp, NewUnknownBranchError(s)
	}
}

// JointAngles are the three joint variables in radians.
type JointAngles struct {
	T1 float64 `json:"t1"`
	T2 float64 `json:"t2"`
	T3 float64 `json:"t3"`
}

// Slice returns the angles in joint order.
func (j JointAngles) Slice() []float64 {
	return []float64{j.T1, j.T2, j.T3}
}

// Inputs returns the angles as model inputs.
func (j JointAngles) Inputs() []referenceframe.Input {
	return referenceframe.FloatsToInputs(j.Slice())
}

// JointAnglesFromSlice builds JointAngles from exactly three values.
func JointAnglesFromSlice(v []float64) (JointAngles, error) {
	if len(v) != 3 {
		return JointAngles{}, referenceframe.NewIncorrectDoFError(len(v), 3)
	}
	return JointAngles{T1: v[0], T2: v[1], T3: v[2]}, nil
}

// Solution is one set of joint angles tagged with the branch that produced it.
type Solution struct {
	Branch Branch
	Angles JointAngles
}

// Solve returns the joint angles that put the wrist of the arm at target, choosing the given
// elbow branch. A target x = y = 0 has no defined azimuth and gets t1 = 0. Targets past the
// reach shells by more than rounding error are rejected with ErrUnreachableTarget.
func Solve(target r3.Vector, lengths LinkLengths, branch Branch) (JointAngles, error) {
	t1 := math.Atan2(target.Y, target.X)
	c := math.Hypot(target.X, target.Y)
	d := target.Z - lengths.Length1

	cosT3 := (utils.Square(c) + utils.Square(d) - utils.Square(lengths.Length2) - utils.Square(lengths.Length3)) /
		(2 * lengths.Length2 * lengths.Length3)
	if math.IsNaN(cosT3) || math.Abs(cosT3) > 1+boundaryTolerance {
		return JointAngles{}, NewUnreachableTargetError(target, cosT3)
	}
	cosT3 = utils.Clamp(cosT3, -1, 1)

	sinT3 := math.Sqrt(1 - utils.Square(cosT3))
	if branch == ElbowDown {
		sinT3 = -sinT3
	}
	t3 := math.Atan2(sinT3, cosT3)

	r := lengths.Length3*cosT3 + lengths.Length2
	s := lengths.Length3 * sinT3
	t2 := math.Atan2(r*d-s*c, r*c+s*d)

	return JointAngles{T1: t1, T2: t2, T3: t3}, nil
}

// Solutions returns both elbow branches for target, elbow up first.
func Solutions(target r3.Vector, lengths LinkLengths) ([]Solution, error) {
	solutions := make([]Solution, 0, 2)
	for _, b := range []Branch{ElbowUp, ElbowDown} {
		angles, err := Solve(target, lengths, b)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, Solution{Branch: b, Angles: angles})
	}
	return solutions, nil
}

// Reachable reports whether target lies inside the work envelope.
func Reachable(target r3.Vector, lengths LinkLengths) bool {
	_, err := Solve(target, lengths, ElbowUp)
	return err == nil
}
