package cli

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/dhkin/kinematics"
)

func (ac *appContext) inverseAction(c *cli.Context) error {
	m, err := ac.newArm()
	if err != nil {
		return err
	}
	target := r3.Vector{X: c.Float64(flagX), Y: c.Float64(flagY), Z: c.Float64(flagZ)}

	if c.Bool(flagBoth) {
		solutions, err := kinematics.Solutions(target, m.Lengths())
		if err != nil {
			return err
		}
		out := make([]solutionOutput, 0, len(solutions))
		for _, s := range solutions {
			end, err := m.Model().Transform(s.Angles.Inputs())
			if err != nil {
				return errors.Wrapf(err, "%s solution", s.Branch)
			}
			out = append(out, solutionOutput{
				Branch:          s.Branch.String(),
				JointAnglesDegs: anglesInDegrees(s.Angles),
				EndPosition:     toPoint(end.Point()),
			})
		}
		if c.Bool(flagJSON) {
			return writeJSON(c.App.Writer, out)
		}
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Branch", "Theta1", "Theta2", "Theta3", "End position"})
		for _, s := range out {
			t.AppendRow([]interface{}{
				s.Branch,
				fmt.Sprintf("%.3f", s.JointAnglesDegs[0]),
				fmt.Sprintf("%.3f", s.JointAnglesDegs[1]),
				fmt.Sprintf("%.3f", s.JointAnglesDegs[2]),
				fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", s.EndPosition.X, s.EndPosition.Y, s.EndPosition.Z),
			})
		}
		printf(c.App.Writer, "%s", t.Render())
		return nil
	}

	if c.Bool(flagElbowDown) {
		m.SetBranch(kinematics.ElbowDown)
	}
	angles, err := m.MoveToPosition(target)
	if err != nil {
		return err
	}
	end := m.EndPosition()
	if c.Bool(flagJSON) {
		return writeJSON(c.App.Writer, solutionOutput{
			Branch:          m.Branch().String(),
			JointAnglesDegs: anglesInDegrees(angles),
			EndPosition:     toPoint(end),
		})
	}
	degs := anglesInDegrees(angles)
	printf(c.App.Writer, "theta1: %.3f  theta2: %.3f  theta3: %.3f (degrees, %s)", degs[0], degs[1], degs[2], m.Branch())
	printf(c.App.Writer, "end position: X:%.3f, Y:%.3f, Z:%.3f", end.X, end.Y, end.Z)
	return nil
}
