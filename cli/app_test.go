package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/referenceframe"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := NewApp(out, errOut).Run(append([]string{"dhkin"}, args...))
	return out.String(), errOut.String(), err
}

func TestForwardAction(t *testing.T) {
	out, _, err := runApp(t, "forward")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "X:0.000, Y:0.000, Z:2.000")
	test.That(t, out, test.ShouldContainSubstring, "X:4.000, Y:0.000, Z:2.000")

	out, _, err = runApp(t, "--json", "forward", "--theta1=90")
	test.That(t, err, test.ShouldBeNil)
	var frames framesOutput
	test.That(t, json.Unmarshal([]byte(out), &frames), test.ShouldBeNil)
	test.That(t, frames.JointAnglesDegs[0], test.ShouldAlmostEqual, 90)
	test.That(t, len(frames.Frames), test.ShouldEqual, 3)
	test.That(t, frames.Frames[2].X, test.ShouldAlmostEqual, 0)
	test.That(t, frames.Frames[2].Y, test.ShouldAlmostEqual, 4)
	test.That(t, frames.Frames[2].Z, test.ShouldAlmostEqual, 2)

	_, _, err = runApp(t, "forward", "--theta2=200")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, referenceframe.OOBErrString)
}

func TestInverseAction(t *testing.T) {
	out, _, err := runApp(t, "inverse", "--x=4", "--y=0", "--z=2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "theta1: 0.000  theta2: 0.000  theta3: 0.000")
	test.That(t, out, test.ShouldContainSubstring, "end position: X:4.000, Y:0.000, Z:2.000")

	out, _, err = runApp(t, "--json", "inverse", "--x=2", "--y=2", "--z=2", "--elbow-down")
	test.That(t, err, test.ShouldBeNil)
	var sol solutionOutput
	test.That(t, json.Unmarshal([]byte(out), &sol), test.ShouldBeNil)
	test.That(t, sol.Branch, test.ShouldEqual, "elbow_down")
	test.That(t, sol.JointAnglesDegs[2], test.ShouldAlmostEqual, -90)
	test.That(t, sol.EndPosition.X, test.ShouldAlmostEqual, 2)
	test.That(t, sol.EndPosition.Y, test.ShouldAlmostEqual, 2)
	test.That(t, sol.EndPosition.Z, test.ShouldAlmostEqual, 2)

	out, _, err = runApp(t, "inverse", "--x=2", "--y=2", "--z=2", "--both")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "elbow_up")
	test.That(t, out, test.ShouldContainSubstring, "elbow_down")

	out, _, err = runApp(t, "--json", "inverse", "--x=2", "--y=2", "--z=2", "--both")
	test.That(t, err, test.ShouldBeNil)
	var sols []solutionOutput
	test.That(t, json.Unmarshal([]byte(out), &sols), test.ShouldBeNil)
	test.That(t, len(sols), test.ShouldEqual, 2)
	test.That(t, sols[0].Branch, test.ShouldEqual, "elbow_up")

	_, _, err = runApp(t, "inverse", "--x=10", "--y=0", "--z=0")
	test.That(t, errors.Is(err, kinematics.ErrUnreachableTarget), test.ShouldBeTrue)

	_, _, err = runApp(t, "inverse", "--x=1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTraceAction(t *testing.T) {
	out, _, err := runApp(t, "trace", "--interval=0", "--samples=10", "--radius=1")
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, len(lines), test.ShouldEqual, 11)
	test.That(t, lines[10], test.ShouldContainSubstring, "10 steps, 10 reached, 0 unreachable")

	out, _, err = runApp(t, "--json", "trace", "--interval=0", "--samples=20", "--cx=3", "--cz=1", "--radius=1.5")
	test.That(t, err, test.ShouldBeNil)
	var trace traceOutput
	test.That(t, json.Unmarshal([]byte(out), &trace), test.ShouldBeNil)
	test.That(t, len(trace.Steps), test.ShouldEqual, 20)
	test.That(t, trace.Summary.Steps, test.ShouldEqual, 20)
	test.That(t, trace.Summary.Unreachable, test.ShouldBeGreaterThan, 0)
	for _, s := range trace.Steps {
		if !s.Reached {
			test.That(t, s.Error, test.ShouldContainSubstring, "coordinate outside work envelope")
		}
	}

	_, _, err = runApp(t, "trace", "--radius=5")
	test.That(t, errors.Is(err, motionplan.ErrInvalidRadius), test.ShouldBeTrue)

	_, _, err = runApp(t, "trace", "--watch")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "needs a config file")
}

func TestTraceActionConfig(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "config.json")
	conf := `{
		"arm": {"name": "small", "lengths": {"length1": 1, "length2": 1, "length3": 1}},
		"trajectory": {"center": {"x": 1, "y": 0, "z": 0}, "radius": 0.5, "samples": 8},
		"loop": {"interval": "1ms", "steps": 3}
	}`
	test.That(t, os.WriteFile(confPath, []byte(conf), 0o600), test.ShouldBeNil)

	out, _, err := runApp(t, "--config", confPath, "trace")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "3 steps, 3 reached")

	// flags win over the config file
	out, _, err = runApp(t, "--config", confPath, "trace", "--steps=5", "--interval=0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "5 steps")

	_, _, err = runApp(t, "--config", filepath.Join(dir, "missing.json"), "trace")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTraceWatchKeepsLastLap(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.json")
	conf := `{
		"arm": {"name": "small", "lengths": {"length1": 1, "length2": 1, "length3": 1}},
		"trajectory": {"center": {"x": 1, "y": 0, "z": 0}, "radius": 0.5, "samples": 8}
	}`
	test.That(t, os.WriteFile(confPath, []byte(conf), 0o600), test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(300*time.Millisecond, cancel)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := NewApp(out, errOut).RunContext(ctx, []string{"dhkin", "--json", "--config", confPath, "trace", "--watch", "--interval=0"})
	test.That(t, err, test.ShouldBeNil)

	var trace traceOutput
	test.That(t, json.Unmarshal(out.Bytes(), &trace), test.ShouldBeNil)
	test.That(t, trace.TotalSteps, test.ShouldBeGreaterThan, 8)
	test.That(t, len(trace.Steps), test.ShouldEqual, 8)
	test.That(t, trace.Summary.Steps, test.ShouldEqual, 8)
	test.That(t, trace.Summary.Reached, test.ShouldEqual, 8)
}

func TestModelAction(t *testing.T) {
	out, _, err := runApp(t, "model")
	test.That(t, err, test.ShouldBeNil)
	m, err := referenceframe.UnmarshalModelJSON([]byte(out), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "arm")
	test.That(t, m.DoF(), test.ShouldEqual, 3)
}

func TestTracePlot(t *testing.T) {
	plotPath := filepath.Join(t.TempDir(), "trace.png")
	_, _, err := runApp(t, "trace", "--interval=0", "--samples=30", "--cx=3", "--cz=1", "--radius=1.5", "--plot", plotPath)
	test.That(t, err, test.ShouldBeNil)
	data, err := os.ReadFile(plotPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bytes.HasPrefix(data, []byte("\x89PNG")), test.ShouldBeTrue)
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dhkin.log")
	_, errOut, err := runApp(t, "--log-file", logPath, "trace", "--interval=0", "--samples=20", "--cx=3", "--cz=1", "--radius=1.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "coordinate outside work envelope")
	data, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "coordinate outside work envelope")
	test.That(t, string(data), test.ShouldContainSubstring, "dhkin.loop")
}

func TestSchemaAction(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, `"trajectory"`)
}
