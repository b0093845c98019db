package cli

import (
	"bufio"
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"go.viam.com/dhkin/motionplan"
	"go.viam.com/dhkin/referenceframe"
	"go.viam.com/dhkin/spatialmath"
)

var (
	circleColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	pathColor   = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	armColor    = color.RGBA{R: 30, G: 60, B: 200, A: 255}
	missColor   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// projection picks two coordinates of a point.
type projection struct {
	name        string
	xLabel      string
	yLabel      string
	coordinates func(x, y, z float64) (float64, float64)
}

var projections = []projection{
	{"top (XY)", "X", "Y", func(x, y, _ float64) (float64, float64) { return x, y }},
	{"side (XZ)", "X", "Z", func(x, _, z float64) (float64, float64) { return x, z }},
}

func tracePlot(
	proj projection,
	traj *motionplan.Trajectory,
	results []motionplan.StepResult,
	armPoses []spatialmath.Pose,
) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = proj.name
	p.X.Label.Text = proj.xLabel
	p.Y.Label.Text = proj.yLabel
	p.Legend.Top = true

	circle := make(plotter.XYs, 0, traj.Len())
	for _, pt := range traj.Points() {
		x, y := proj.coordinates(pt.X, pt.Y, pt.Z)
		circle = append(circle, plotter.XY{X: x, Y: y})
	}
	circleLine, err := plotter.NewLine(circle)
	if err != nil {
		return nil, err
	}
	circleLine.Color = circleColor
	circleLine.Width = vg.Points(1)
	p.Add(circleLine)
	p.Legend.Add("circle", circleLine)

	reached := make(plotter.XYs, 0, len(results))
	missed := make(plotter.XYs, 0)
	for _, res := range results {
		if res.Reached() {
			end := res.EndPosition()
			x, y := proj.coordinates(end.X, end.Y, end.Z)
			reached = append(reached, plotter.XY{X: x, Y: y})
			continue
		}
		pt := res.Sample.Point
		x, y := proj.coordinates(pt.X, pt.Y, pt.Z)
		missed = append(missed, plotter.XY{X: x, Y: y})
	}
	if len(reached) > 0 {
		path, err := plotter.NewScatter(reached)
		if err != nil {
			return nil, err
		}
		path.GlyphStyle.Color = pathColor
		path.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(path)
		p.Legend.Add("end position", path)
	}
	if len(missed) > 0 {
		miss, err := plotter.NewScatter(missed)
		if err != nil {
			return nil, err
		}
		miss.GlyphStyle.Color = missColor
		miss.GlyphStyle.Shape = draw.CrossGlyph{}
		miss.GlyphStyle.Radius = vg.Points(2)
		p.Add(miss)
		p.Legend.Add("unreachable", miss)
	}

	links := make(plotter.XYs, 0, len(armPoses)+1)
	for _, pt := range referenceframe.FramePoints(armPoses) {
		x, y := proj.coordinates(pt.X, pt.Y, pt.Z)
		links = append(links, plotter.XY{X: x, Y: y})
	}
	armLine, armPoints, err := plotter.NewLinePoints(links)
	if err != nil {
		return nil, err
	}
	armLine.Color = armColor
	armLine.Width = vg.Points(2)
	armPoints.GlyphStyle.Color = armColor
	p.Add(armLine, armPoints)
	p.Legend.Add("arm", armLine, armPoints)
	return p, nil
}

// WriteTracePlot renders the top and side views of a trace side by side as a PNG.
func WriteTracePlot(
	w io.Writer,
	traj *motionplan.Trajectory,
	results []motionplan.StepResult,
	armPoses []spatialmath.Pose,
) error {
	row := make([]*plot.Plot, 0, len(projections))
	for _, proj := range projections {
		p, err := tracePlot(proj, traj, results, armPoses)
		if err != nil {
			return errors.Wrapf(err, "cannot plot %s", proj.name)
		}
		row = append(row, p)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(12*vg.Inch, 6*vg.Inch),
		vgimg.UseDPI(96),
	)
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(row),
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{row}, tiles, dc)
	for i, p := range row {
		p.Draw(canvases[0][i])
	}

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(w); err != nil {
		return errors.Wrap(err, "cannot write png")
	}
	return nil
}

// WriteTracePlotFile is WriteTracePlot to a file.
func WriteTracePlotFile(
	filename string,
	traj *motionplan.Trajectory,
	results []motionplan.StepResult,
	armPoses []spatialmath.Pose,
) error {
	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "cannot create png")
	}
	bw := bufio.NewWriter(f)
	if err := WriteTracePlot(bw, traj, results, armPoses); err != nil {
		//nolint:errcheck
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		//nolint:errcheck
		f.Close()
		return errors.Wrap(err, "cannot write png")
	}
	return f.Close()
}
