package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/utils"
)

func (ac *appContext) forwardAction(c *cli.Context) error {
	m, err := ac.newArm()
	if err != nil {
		return err
	}
	angles := kinematics.JointAngles{
		T1: utils.DegToRad(c.Float64(flagTheta1)),
		T2: utils.DegToRad(c.Float64(flagTheta2)),
		T3: utils.DegToRad(c.Float64(flagTheta3)),
	}
	if err := m.MoveToJointPositions(angles); err != nil {
		return err
	}

	if c.Bool(flagJSON) {
		return writeJSON(c.App.Writer, framesOutput{
			JointAnglesDegs: anglesInDegrees(m.JointAngles()),
			Frames:          framePoints(m.ComputeForward()),
		})
	}
	printf(c.App.Writer, "%s", m.String())
	return nil
}
