package motionplan

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Run steps the loop once per tick of clk until ctx is done or maxSteps steps have been taken.
// A maxSteps of 0 or less runs until ctx is done. Each result is handed to sink, which may be nil.
// It returns the number of steps taken, and ctx.Err() if the context ended the run.
func Run(
	ctx context.Context,
	clk clock.Clock,
	interval time.Duration,
	loop *MotionLoop,
	maxSteps int,
	sink func(StepResult),
) (int, error) {
	if interval <= 0 {
		return 0, errors.Errorf("interval must be positive, got %v", interval)
	}
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	steps := 0
	for maxSteps <= 0 || steps < maxSteps {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		case <-ticker.C:
		}
		res := loop.Step()
		steps++
		if sink != nil {
			sink(res)
		}
	}
	return steps, nil
}

// RunLap steps the loop once per sample of its trajectory without waiting between steps.
func RunLap(loop *MotionLoop, sink func(StepResult)) []StepResult {
	n := loop.Trajectory().Len()
	results := make([]StepResult, 0, n)
	for i := 0; i < n; i++ {
		res := loop.Step()
		if sink != nil {
			sink(res)
		}
		results = append(results, res)
	}
	return results
}
