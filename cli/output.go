package cli

import (
	"encoding/json"
	"io"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/spatialmath"
	"go.viam.com/dhkin/utils"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toPoint(v r3.Vector) point {
	return point{X: v.X, Y: v.Y, Z: v.Z}
}

func framePoints(poses []spatialmath.Pose) []point {
	return lo.Map(poses, func(p spatialmath.Pose, _ int) point { return toPoint(p.Point()) })
}

func anglesInDegrees(a kinematics.JointAngles) [3]float64 {
	return [3]float64{utils.RadToDeg(a.T1), utils.RadToDeg(a.T2), utils.RadToDeg(a.T3)}
}

type framesOutput struct {
	JointAnglesDegs [3]float64 `json:"joint_angles_degs"`
	Frames          []point    `json:"frames"`
}

type solutionOutput struct {
	Branch          string     `json:"branch"`
	JointAnglesDegs [3]float64 `json:"joint_angles_degs"`
	EndPosition     point      `json:"end_position"`
}

type stepOutput struct {
	Index           int        `json:"index"`
	Param           float64    `json:"param"`
	Target          point      `json:"target"`
	Reached         bool       `json:"reached"`
	EndPosition     point      `json:"end_position"`
	JointAnglesDegs [3]float64 `json:"joint_angles_degs"`
	Error           string     `json:"error,omitempty"`
}

func toStepOutput(res motionplan.StepResult, _ int) stepOutput {
	so := stepOutput{
		Index:           res.Index,
		Param:           res.Sample.Param,
		Target:          toPoint(res.Sample.Point),
		Reached:         res.Reached(),
		EndPosition:     toPoint(res.EndPosition()),
		JointAnglesDegs: anglesInDegrees(res.Angles),
	}
	if res.Err != nil {
		so.Error = res.Err.Error()
	}
	return so
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
