package cli

import (
	"context"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/dhkin/config"
	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/utils"
)

type traceOutput struct {
	// TotalSteps counts every step taken. Steps and Summary cover the retained window only.
	TotalSteps int                `json:"total_steps"`
	Steps      []stepOutput       `json:"steps"`
	Summary    motionplan.Summary `json:"summary"`
}

func (ac *appContext) traceSpec(c *cli.Context) (motionplan.CircleSpec, int) {
	spec := ac.conf.Trajectory.CircleSpec()
	if c.IsSet(flagCenterX) {
		spec.Center.X = c.Float64(flagCenterX)
	}
	if c.IsSet(flagCenterY) {
		spec.Center.Y = c.Float64(flagCenterY)
	}
	if c.IsSet(flagCenterZ) {
		spec.Center.Z = c.Float64(flagCenterZ)
	}
	if c.IsSet(flagRadius) {
		spec.Radius = c.Float64(flagRadius)
	}
	if c.IsSet(flagBeta) {
		spec.Beta = c.Float64(flagBeta)
	}
	if c.IsSet(flagGamma) {
		spec.Gamma = c.Float64(flagGamma)
	}
	samples := ac.conf.Trajectory.SampleCount()
	if c.IsSet(flagSamples) {
		samples = c.Int(flagSamples)
	}
	return spec, samples
}

func (ac *appContext) traceAction(c *cli.Context) error {
	m, err := ac.newArm()
	if err != nil {
		return err
	}
	spec, samples := ac.traceSpec(c)
	traj, err := motionplan.GenerateCircle(spec, m.Lengths().Reach(), samples)
	if err != nil {
		return err
	}
	loop, err := motionplan.NewMotionLoop(m, traj, ac.logger.Sublogger("loop"))
	if err != nil {
		return err
	}
	outside := lo.CountBy(traj.Points(), func(p r3.Vector) bool {
		return !kinematics.Reachable(p, m.Lengths())
	})
	if outside > 0 {
		ac.logger.Warnw("circle leaves the work envelope", "samples", traj.Len(), "outside", outside)
	}

	watch := c.Bool(flagWatch)
	if watch && ac.conf.ConfigFilePath == "" {
		return errors.New("--watch needs a config file")
	}
	steps := ac.conf.Loop.Steps
	if c.IsSet(flagSteps) {
		steps = c.Int(flagSteps)
	}
	if steps < 0 {
		return errors.Errorf("steps must not be negative, got %d", steps)
	}
	if steps == 0 && !watch {
		steps = traj.Len()
	}
	interval := ac.conf.Loop.StepInterval()
	if c.IsSet(flagInterval) {
		interval = c.Duration(flagInterval)
	}

	asJSON := c.Bool(flagJSON)
	missed := color.New(color.FgYellow)
	if c.App.Writer != os.Stdout {
		missed.DisableColor()
	}
	// watch mode runs until interrupted, so only the last lap is kept
	window := traj.Len()
	if !watch {
		window = steps
	}
	results := motionplan.NewResultWindow(window)
	sink := func(res motionplan.StepResult) {
		results.Add(res)
		if asJSON {
			return
		}
		end := res.EndPosition()
		if res.Reached() {
			printf(c.App.Writer, "%4d  target X:%.3f, Y:%.3f, Z:%.3f  end X:%.3f, Y:%.3f, Z:%.3f",
				res.Index, res.Sample.Point.X, res.Sample.Point.Y, res.Sample.Point.Z, end.X, end.Y, end.Z)
			return
		}
		reason := "coordinate outside work envelope"
		if !res.Unreachable() {
			reason = res.Err.Error()
		}
		printf(c.App.Writer, "%4d  target X:%.3f, Y:%.3f, Z:%.3f  %s",
			res.Index, res.Sample.Point.X, res.Sample.Point.Y, res.Sample.Point.Z, missed.Sprint(reason))
	}

	ctx := c.Context
	if watch {
		workers := utils.NewStoppableWorkers(ctx, func(ctx context.Context) {
			err := config.Watch(ctx, ac.conf.ConfigFilePath, ac.logger, func(conf *config.Config) {
				newTraj, err := motionplan.GenerateCircle(conf.Trajectory.CircleSpec(), m.Lengths().Reach(), conf.Trajectory.SampleCount())
				if err != nil {
					ac.logger.Warnw("not regenerating circle", "error", err)
					return
				}
				if err := loop.SetTrajectory(newTraj); err != nil {
					ac.logger.Warnw("not regenerating circle", "error", err)
					return
				}
				ac.logger.Infow("regenerated circle", "radius", conf.Trajectory.CircleSpec().Radius, "samples", newTraj.Len())
			})
			if err != nil {
				ac.logger.Errorw("config watcher stopped", "error", err)
			}
		})
		defer workers.Stop()
		ctx = workers.Context()
	}

	if err := runLoop(ctx, interval, loop, steps, sink); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	kept := results.Results()
	summary, err := motionplan.Summarize(kept)
	if err != nil {
		return err
	}
	if path := c.Path(flagPlot); path != "" {
		if err := WriteTracePlotFile(path, loop.Trajectory(), kept, m.ComputeForward()); err != nil {
			return err
		}
	}
	if asJSON {
		out := traceOutput{TotalSteps: results.Total(), Summary: summary, Steps: lo.Map(kept, toStepOutput)}
		return writeJSON(c.App.Writer, out)
	}
	if results.Total() > len(kept) {
		printf(c.App.Writer, "last %d of %d steps", len(kept), results.Total())
	}
	printf(c.App.Writer, "%s", summary)
	return nil
}

// runLoop steps the loop on a wall clock ticker, or back to back when interval is 0.
// Back to back, whole laps are run at once whenever the loop sits at the start of its
// trajectory and enough steps remain.
func runLoop(ctx context.Context, interval time.Duration, loop *motionplan.MotionLoop, steps int, sink func(motionplan.StepResult)) error {
	if interval > 0 {
		_, err := motionplan.Run(ctx, clock.New(), interval, loop, steps, sink)
		return err
	}
	for i := 0; steps <= 0 || i < steps; {
		if err := ctx.Err(); err != nil {
			return err
		}
		if loop.Index() == 0 && (steps <= 0 || steps-i >= loop.Trajectory().Len()) {
			i += len(motionplan.RunLap(loop, sink))
			continue
		}
		sink(loop.Step())
		i++
	}
	return nil
}
