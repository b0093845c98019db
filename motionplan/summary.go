package motionplan

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"go.viam.com/dhkin/referenceframe"
)

// Summary describes a run of the motion loop. It counts the reached samples and measures how far
// the end of the arm landed from each of them.
type Summary struct {
	Steps       int     `json:"steps"`
	Reached     int     `json:"reached"`
	Unreachable int     `json:"unreachable"`
	// Failed counts samples inside the envelope that the arm could still not move to.
	Failed      int     `json:"failed"`
	MeanError   float64 `json:"mean_error"`
	MaxError    float64 `json:"max_error"`
	P95Error    float64 `json:"p95_error"`
	// JointTravel is the summed joint space distance, in radians, between consecutive steps.
	JointTravel float64 `json:"joint_travel"`
}

// Summarize computes a Summary from step results. Errors are the distances between each reached
// sample and the end position of the arm after the step.
func Summarize(results []StepResult) (Summary, error) {
	sum := Summary{Steps: len(results)}
	residuals := make(stats.Float64Data, 0, len(results))
	for i, r := range results {
		if i > 0 {
			sum.JointTravel += referenceframe.InputsL2Distance(results[i-1].Angles.Inputs(), r.Angles.Inputs())
		}
		if !r.Reached() {
			if r.Unreachable() {
				sum.Unreachable++
			} else {
				sum.Failed++
			}
			continue
		}
		sum.Reached++
		residuals = append(residuals, r.EndPosition().Sub(r.Sample.Point).Norm())
	}
	if len(residuals) == 0 {
		return sum, nil
	}

	var err error
	if sum.MeanError, err = stats.Mean(residuals); err != nil {
		return Summary{}, err
	}
	if sum.MaxError, err = stats.Max(residuals); err != nil {
		return Summary{}, err
	}
	if sum.P95Error, err = stats.Percentile(residuals, 95); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("%d steps, %d reached, %d unreachable, %d failed, error mean %.3g max %.3g p95 %.3g, joint travel %.3f rad",
		s.Steps, s.Reached, s.Unreachable, s.Failed, s.MeanError, s.MaxError, s.P95Error, s.JointTravel)
}
