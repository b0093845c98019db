package config

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/dhkin/components/arm"
	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/logging"
	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/utils"
)

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := Read(utils.ResolveFile("config/data/trace.json"), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, utils.ResolveFile("config/data/trace.json"))

	test.That(t, cfg.Arm.Name, test.ShouldEqual, "elbow")
	test.That(t, *cfg.Arm.Lengths, test.ShouldResemble, kinematics.LinkLengths{Length1: 2, Length2: 2, Length3: 2})
	test.That(t, cfg.Arm.Branch, test.ShouldEqual, "elbow_down")

	spec := cfg.Trajectory.CircleSpec()
	test.That(t, spec.Center, test.ShouldResemble, r3.Vector{X: 1, Y: 0.5, Z: 1.5})
	test.That(t, spec.Radius, test.ShouldEqual, 1.5)
	test.That(t, spec.Beta, test.ShouldAlmostEqual, math.Pi/6)
	test.That(t, spec.Gamma, test.ShouldEqual, 0.25)
	test.That(t, cfg.Trajectory.SampleCount(), test.ShouldEqual, 50)

	test.That(t, cfg.Loop.StepInterval(), test.ShouldEqual, 25*time.Millisecond)
	test.That(t, cfg.Loop.Steps, test.ShouldEqual, 120)

	m, err := arm.NewFromConfig(&cfg.Arm, cfg.ConfigFilePath, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Branch(), test.ShouldEqual, kinematics.ElbowDown)
}

func TestReadEnvAndUnused(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	t.Setenv("DHKIN_MODEL_DIR", utils.ResolveFile("components/arm"))

	cfg, err := Read(utils.ResolveFile("config/data/model_path.json"), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Arm.ModelFilePath, test.ShouldEqual, filepath.Join(utils.ResolveFile("components/arm"), "elbow_model.json"))
	test.That(t, logs.FilterMessage("unrecognized config key").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("unrecognized config key").All()[0].ContextMap()["key"], test.ShouldEqual, "speed")

	m, err := arm.NewFromConfig(&cfg.Arm, cfg.ConfigFilePath, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Lengths(), test.ShouldResemble, kinematics.LinkLengths{Length1: 2, Length2: 2, Length3: 2})
}

func TestDefaults(t *testing.T) {
	cfg, err := FromReader("", strings.NewReader(`{}`), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	spec := cfg.Trajectory.CircleSpec()
	test.That(t, spec, test.ShouldResemble, motionplan.CircleSpec{Center: DefaultCenter, Radius: DefaultRadius})
	test.That(t, cfg.Trajectory.SampleCount(), test.ShouldEqual, motionplan.DefaultSampleCount)
	test.That(t, cfg.Loop.StepInterval(), test.ShouldEqual, DefaultInterval)
	test.That(t, cfg.Arm.Lengths, test.ShouldBeNil)

	// a zero radius is kept rather than replaced by the default
	cfg, err = FromReader("", strings.NewReader(`{"trajectory": {"radius": 0}}`), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Trajectory.CircleSpec().Radius, test.ShouldEqual, 0.)
}

func TestValidate(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, tc := range []struct {
		name     string
		contents string
		errs     []string
	}{
		{
			"negative radius and one sample",
			`{"trajectory": {"radius": -1, "samples": 1}}`,
			[]string{`error validating "trajectory"`, `"radius"`, `"samples"`},
		},
		{
			"both beta forms",
			`{"trajectory": {"beta": 0.1, "beta_degs": 10}}`,
			[]string{`"beta" and "beta_degs"`},
		},
		{
			"gamma out of range",
			`{"trajectory": {"gamma_degs": 270}}`,
			[]string{`"gamma" must be within`},
		},
		{
			"bad arm and loop",
			`{"arm": {"branch": "sideways"}, "loop": {"steps": -3}}`,
			[]string{`error validating "arm"`, `error validating "loop"`, `"steps"`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromReader("", strings.NewReader(tc.contents), logger)
			test.That(t, err, test.ShouldNotBeNil)
			for _, s := range tc.errs {
				test.That(t, err.Error(), test.ShouldContainSubstring, s)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read config file")

	_, err = FromReader("", strings.NewReader(`{`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")

	_, err = FromReader("", strings.NewReader(`{"loop": {"interval": "soon"}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot decode config")
}

func TestTransformAttributeMap(t *testing.T) {
	type attrs struct {
		Name     string        `json:"name"`
		Interval time.Duration `json:"interval"`
	}
	out, unused, err := TransformAttributeMap[attrs](utils.AttributeMap{"name": "a", "interval": "1s", "extra": 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, attrs{Name: "a", Interval: time.Second})
	test.That(t, unused, test.ShouldResemble, []string{"extra"})

	ptr, unused, err := TransformAttributeMap[*attrs](utils.AttributeMap{"name": "b"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ptr.Name, test.ShouldEqual, "b")
	test.That(t, unused, test.ShouldBeEmpty)
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	test.That(t, err, test.ShouldBeNil)
	var schema map[string]interface{}
	test.That(t, json.Unmarshal(data, &schema), test.ShouldBeNil)
	for _, field := range []string{"trajectory", "beta_degs", "model-path", "interval"} {
		test.That(t, bytes.Contains(data, []byte(`"`+field+`"`)), test.ShouldBeTrue)
	}
}

func TestWatch(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	test.That(t, os.WriteFile(path, []byte(`{"trajectory": {"radius": 1}}`), 0o600), test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan *Config, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logger, func(cfg *Config) { changes <- cfg })
	}()

	// keep rewriting until the watcher has been set up and picks up a change
	deadline := time.After(5 * time.Second)
	var got *Config
	for got == nil {
		test.That(t, os.WriteFile(path, []byte(`{"trajectory": {"radius": 0.5}}`), 0o600), test.ShouldBeNil)
		select {
		case got = <-changes:
		case <-time.After(250 * time.Millisecond):
		case <-deadline:
			t.Fatal("config change was not picked up")
		}
	}
	test.That(t, got.Trajectory.CircleSpec().Radius, test.ShouldEqual, 0.5)

	cancel()
	test.That(t, <-done, test.ShouldBeNil)
}
