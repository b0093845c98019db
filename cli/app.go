// Package cli contains the dhkin command line: it moves the elbow arm by joint angles or to a
// point, and traces a circle with it.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/dhkin/components/arm"
	"go.viam.com/dhkin/config"
	"go.viam.com/dhkin/logging"
)

const (
	// Global flags.
	flagConfig  = "config"
	flagDebug   = "debug"
	flagJSON    = "json"
	flagLogFile = "log-file"

	// forward flags.
	flagTheta1 = "theta1"
	flagTheta2 = "theta2"
	flagTheta3 = "theta3"

	// inverse flags.
	flagX         = "x"
	flagY         = "y"
	flagZ         = "z"
	flagElbowDown = "elbow-down"
	flagBoth      = "both"

	// trace flags.
	flagCenterX  = "cx"
	flagCenterY  = "cy"
	flagCenterZ  = "cz"
	flagRadius   = "radius"
	flagBeta     = "beta"
	flagGamma    = "gamma"
	flagSamples  = "samples"
	flagSteps    = "steps"
	flagInterval = "interval"
	flagPlot     = "plot"
	flagWatch    = "watch"
)

// appContext carries what the Before hook sets up to the actions.
type appContext struct {
	logger  logging.Logger
	logFile *lumberjack.Logger
	conf    *config.Config
}

func (ac *appContext) before(c *cli.Context) error {
	ac.logger = logging.NewBlankLogger("dhkin")
	ac.logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	ac.logger.SetLevel(logging.WARN)
	if path := c.Path(flagLogFile); path != "" {
		ac.logFile = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 2,
			Compress:   true,
		}
		ac.logger.AddAppender(logging.NewWriterAppender(ac.logFile))
	}
	if c.Bool(flagDebug) {
		ac.logger.SetLevel(logging.DEBUG)
	}

	ac.conf = &config.Config{}
	if path := c.Path(flagConfig); path != "" {
		conf, err := config.Read(path, ac.logger)
		if err != nil {
			return err
		}
		ac.conf = conf
	}
	if ac.conf.Debug {
		ac.logger.SetLevel(logging.DEBUG)
	}
	return nil
}

func (ac *appContext) after(c *cli.Context) error {
	if ac.logFile == nil {
		return nil
	}
	return ac.logFile.Close()
}

func (ac *appContext) newArm() (*arm.Manipulator, error) {
	return arm.NewFromConfig(&ac.conf.Arm, ac.conf.ConfigFilePath, ac.logger.Sublogger("arm"))
}

// printf prints a message to the app's writer with a trailing newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// NewApp returns the dhkin app writing to the given writers.
func NewApp(out, errOut io.Writer) *cli.App {
	ac := &appContext{}
	return &cli.App{
		Name:            "dhkin",
		Usage:           "forward and inverse kinematics of a three joint elbow arm",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagJSON,
				Usage: "print results as JSON",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`, rotated at 10MB",
			},
		},
		Before: ac.before,
		After:  ac.after,
		Commands: []*cli.Command{
			{
				Name:      "forward",
				Usage:     "move the joints and print the position of every frame",
				UsageText: "dhkin forward [--theta1 DEGREES] [--theta2 DEGREES] [--theta3 DEGREES]",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagTheta1, Usage: "shoulder angle in degrees, within [-180, 180]"},
					&cli.Float64Flag{Name: flagTheta2, Usage: "upper arm angle in degrees, within [-180, 180]"},
					&cli.Float64Flag{Name: flagTheta3, Usage: "forearm angle in degrees, within [-180, 180]"},
				},
				Action: ac.forwardAction,
			},
			{
				Name:      "inverse",
				Usage:     "solve for the joint angles that reach a point",
				UsageText: "dhkin inverse --x X --y Y --z Z [--elbow-down] [--both]",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagX, Required: true, Usage: "target x"},
					&cli.Float64Flag{Name: flagY, Required: true, Usage: "target y"},
					&cli.Float64Flag{Name: flagZ, Required: true, Usage: "target z"},
					&cli.BoolFlag{Name: flagElbowDown, Usage: "use the elbow down solution"},
					&cli.BoolFlag{Name: flagBoth, Usage: "print both elbow solutions"},
				},
				Action: ac.inverseAction,
			},
			{
				Name:  "trace",
				Usage: "trace a circle with the arm",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagCenterX, Usage: "x of the circle center"},
					&cli.Float64Flag{Name: flagCenterY, Usage: "y of the circle center"},
					&cli.Float64Flag{Name: flagCenterZ, Usage: "z of the circle center"},
					&cli.Float64Flag{Name: flagRadius, Usage: "radius of the circle, within [0, reach]"},
					&cli.Float64Flag{Name: flagBeta, Usage: "tilt of the circle in radians, within [-pi, pi]"},
					&cli.Float64Flag{Name: flagGamma, Usage: "rotation of the circle about the vertical in radians, within [-pi, pi]"},
					&cli.IntFlag{Name: flagSamples, Usage: "number of samples on the circle"},
					&cli.IntFlag{Name: flagSteps, Usage: "number of motion loop steps, one lap when 0"},
					&cli.DurationFlag{Name: flagInterval, Usage: "time between steps, 0 to run without waiting"},
					&cli.PathFlag{Name: flagPlot, Usage: "write a PNG plot of the trace to `FILE`"},
					&cli.BoolFlag{Name: flagWatch, Usage: "keep tracing and regenerate the circle when the config file changes"},
				},
				Action: ac.traceAction,
			},
			{
				Name:   "model",
				Usage:  "print the DH kinematics file of the configured arm",
				Action: ac.modelAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: ac.schemaAction,
			},
		},
	}
}

func (ac *appContext) modelAction(c *cli.Context) error {
	m, err := ac.newArm()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m.Model(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode model")
	}
	printf(c.App.Writer, "%s", data)
	return nil
}

func (ac *appContext) schemaAction(c *cli.Context) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return errors.Wrap(err, "cannot build schema")
	}
	printf(c.App.Writer, "%s", data)
	return nil
}
