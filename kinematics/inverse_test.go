package kinematics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/dhkin/referenceframe"
	spatial "go.viam.com/dhkin/spatialmath"
)

func forward(t *testing.T, lengths LinkLengths, angles JointAngles) r3.Vector {
	t.Helper()
	params, err := lengths.JointParameters().WithThetas(angles.Slice())
	test.That(t, err, test.ShouldBeNil)
	poses := referenceframe.ComputeForward(params)
	return poses[2].Point()
}

// randomShellTarget picks a point between the inner and outer reach of the arm, measured from the shoulder.
func randomShellTarget(rseed *rand.Rand, lengths LinkLengths) r3.Vector {
	radius := lengths.MinReach() + rseed.Float64()*(lengths.Reach()-lengths.MinReach())
	azimuth := (rseed.Float64()*2 - 1) * math.Pi
	elevation := (rseed.Float64() - 0.5) * math.Pi
	return r3.Vector{
		X: radius * math.Cos(elevation) * math.Cos(azimuth),
		Y: radius * math.Cos(elevation) * math.Sin(azimuth),
		Z: lengths.Length1 + radius*math.Sin(elevation),
	}
}

func TestSolveRoundTrip(t *testing.T) {
	rseed := rand.New(rand.NewSource(1))
	for _, lengths := range []LinkLengths{
		{2, 2, 2},
		{1.5, 2.5, 0.7},
		{0.3, 1, 3},
	} {
		for i := 0; i < 500; i++ {
			target := randomShellTarget(rseed, lengths)
			for _, branch := range []Branch{ElbowUp, ElbowDown} {
				angles, err := Solve(target, lengths, branch)
				test.That(t, err, test.ShouldBeNil)
				got := forward(t, lengths, angles)
				test.That(t, spatial.R3VectorAlmostEqual(got, target, 1e-9), test.ShouldBeTrue)
			}
		}
	}
}

func TestSolveScenario(t *testing.T) {
	lengths := LinkLengths{Length1: 2, Length2: 2, Length3: 2}
	angles, err := Solve(r3.Vector{X: 4, Y: 0, Z: 2}, lengths, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles.T1, test.ShouldAlmostEqual, 0)
	test.That(t, angles.T2, test.ShouldAlmostEqual, 0)
	test.That(t, angles.T3, test.ShouldAlmostEqual, 0)

	got := forward(t, lengths, angles)
	test.That(t, spatial.R3VectorAlmostEqual(got, r3.Vector{X: 4, Y: 0, Z: 2}, 1e-12), test.ShouldBeTrue)
}

func TestSolveBranches(t *testing.T) {
	lengths := LinkLengths{Length1: 2, Length2: 2, Length3: 2}
	target := r3.Vector{X: 2, Y: 2, Z: 2}

	up, err := Solve(target, lengths, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
	down, err := Solve(target, lengths, ElbowDown)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, up.T1, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, down.T1, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, up.T3, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, down.T3, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, up.T2, test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, down.T2, test.ShouldAlmostEqual, math.Pi/4)

	solutions, err := Solutions(target, lengths)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(solutions), test.ShouldEqual, 2)
	test.That(t, solutions[0].Branch, test.ShouldEqual, ElbowUp)
	test.That(t, solutions[0].Angles, test.ShouldResemble, up)
	test.That(t, solutions[1].Branch, test.ShouldEqual, ElbowDown)
	test.That(t, solutions[1].Angles, test.ShouldResemble, down)
}

func TestSolveBoundary(t *testing.T) {
	lengths := LinkLengths{Length1: 2, Length2: 2, Length3: 2}

	// fully stretched, straight up and straight out
	for _, target := range []r3.Vector{{X: 0, Y: 0, Z: 6}, {X: 4, Y: 0, Z: 2}, {X: 0, Y: -4, Z: 2}, {X: -4, Y: 0, Z: 2}} {
		for _, branch := range []Branch{ElbowUp, ElbowDown} {
			angles, err := Solve(target, lengths, branch)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, angles.T3, test.ShouldAlmostEqual, 0)
			test.That(t, spatial.R3VectorAlmostEqual(forward(t, lengths, angles), target, 1e-9), test.ShouldBeTrue)
		}
	}

	// fully folded, the wrist is back on the shoulder
	uneven := LinkLengths{Length1: 1, Length2: 3, Length3: 2}
	target := r3.Vector{X: 1, Y: 0, Z: 1}
	angles, err := Solve(target, uneven, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.Abs(angles.T3), test.ShouldAlmostEqual, math.Pi)
	test.That(t, spatial.R3VectorAlmostEqual(forward(t, uneven, angles), target, 1e-9), test.ShouldBeTrue)
}

func TestSolveUnreachable(t *testing.T) {
	lengths := LinkLengths{Length1: 2, Length2: 2, Length3: 2}
	for _, target := range []r3.Vector{
		{X: 0, Y: 0, Z: 6.0001},
		{X: 4 + 4e-10, Y: 0, Z: 2},
		{X: 10, Y: 0, Z: 0},
		{X: 3, Y: 3, Z: 3},
	} {
		_, err := Solve(target, lengths, ElbowUp)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrUnreachableTarget), test.ShouldBeTrue)

		var unreachable *UnreachableTargetError
		test.That(t, errors.As(err, &unreachable), test.ShouldBeTrue)
		test.That(t, unreachable.Target, test.ShouldResemble, target)
		test.That(t, unreachable.CosT3, test.ShouldBeGreaterThan, 1)
		test.That(t, Reachable(target, lengths), test.ShouldBeFalse)

		_, err = Solutions(target, lengths)
		test.That(t, errors.Is(err, ErrUnreachableTarget), test.ShouldBeTrue)
	}

	// inside the inner shell of an uneven arm
	_, err := Solve(r3.Vector{X: 0.5, Y: 0, Z: 1}, LinkLengths{Length1: 1, Length2: 3, Length3: 2}, ElbowDown)
	test.That(t, errors.Is(err, ErrUnreachableTarget), test.ShouldBeTrue)
	var unreachable *UnreachableTargetError
	test.That(t, errors.As(err, &unreachable), test.ShouldBeTrue)
	test.That(t, unreachable.CosT3, test.ShouldBeLessThan, -1)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coordinate outside work envelope")
}

func TestSolveDegenerateAzimuth(t *testing.T) {
	lengths := LinkLengths{Length1: 2, Length2: 2, Length3: 2}
	// on the base axis, azimuth is undefined and reported as zero
	target := r3.Vector{X: 0, Y: 0, Z: 4}
	angles, err := Solve(target, lengths, ElbowUp)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles.T1, test.ShouldEqual, 0.)
	test.That(t, spatial.R3VectorAlmostEqual(forward(t, lengths, angles), target, 1e-9), test.ShouldBeTrue)

	// x = 0 away from the axis must not divide by cos(t1)
	target = r3.Vector{X: 0, Y: 3, Z: 2.5}
	angles, err = Solve(target, lengths, ElbowDown)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles.T1, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, spatial.R3VectorAlmostEqual(forward(t, lengths, angles), target, 1e-9), test.ShouldBeTrue)
}

func TestBranchStrings(t *testing.T) {
	test.That(t, ElbowUp.String(), test.ShouldEqual, "elbow_up")
	test.That(t, ElbowDown.String(), test.ShouldEqual, "elbow_down")
	test.That(t, Branch(7).String(), test.ShouldEqual, "unknown")

	for in, want := range map[string]Branch{"": ElbowUp, "up": ElbowUp, "elbow_up": ElbowUp, "down": ElbowDown, "elbow_down": ElbowDown} {
		b, err := BranchFromString(in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b, test.ShouldEqual, want)
	}
	_, err := BranchFromString("sideways")
	test.That(t, err, test.ShouldBeError, NewUnknownBranchError("sideways"))
}

func TestJointAngles(t *testing.T) {
	angles, err := JointAnglesFromSlice([]float64{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles, test.ShouldResemble, JointAngles{1, 2, 3})
	test.That(t, referenceframe.InputsToFloats(angles.Inputs()), test.ShouldResemble, []float64{1, 2, 3})

	_, err = JointAnglesFromSlice([]float64{1, 2})
	test.That(t, err, test.ShouldBeError, referenceframe.NewIncorrectDoFError(2, 3))
}
