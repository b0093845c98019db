package arm

import (
	"github.com/pkg/errors"

	"go.viam.com/dhkin/kinematics"
	"go.viam.com/dhkin/logging"
	"go.viam.com/dhkin/referenceframe"
	"go.viam.com/dhkin/utils"
)

// Config is used for converting config attributes.
type Config struct {
	Name          string                  `json:"name,omitempty"`
	Lengths       *kinematics.LinkLengths `json:"lengths,omitempty"`
	ModelFilePath string                  `json:"model-path,omitempty"`
	Branch        string                  `json:"branch,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Lengths != nil && conf.ModelFilePath != "" {
		return utils.NewConfigValidationError(path, errors.New("only one of lengths and model-path may be set"))
	}
	if conf.Lengths != nil {
		if err := conf.Lengths.Validate(path + ".lengths"); err != nil {
			return err
		}
	}
	if _, err := kinematics.BranchFromString(conf.Branch); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// NewFromConfig builds the arm a config describes. A relative model-path is taken relative to
// configPath. With neither lengths nor model-path set the embedded elbow model is used.
func NewFromConfig(conf *Config, configPath string, logger logging.Logger) (*Manipulator, error) {
	name := conf.Name
	if name == "" {
		name = "arm"
	}

	var (
		m   *Manipulator
		err error
	)
	switch {
	case conf.Lengths != nil:
		m, err = NewManipulator(name, *conf.Lengths, logger)
	case conf.ModelFilePath != "":
		var file string
		file, err = utils.ResolveRelative(configPath, conf.ModelFilePath)
		if err != nil {
			return nil, err
		}
		var model *referenceframe.Model
		model, err = referenceframe.ParseModelJSONFile(file, name)
		if err != nil {
			return nil, err
		}
		m, err = NewManipulatorFromModel(model, logger)
	default:
		var model *referenceframe.Model
		model, err = DefaultModel(name)
		if err != nil {
			return nil, err
		}
		m, err = NewManipulatorFromModel(model, logger)
	}
	if err != nil {
		return nil, err
	}

	branch, err := kinematics.BranchFromString(conf.Branch)
	if err != nil {
		return nil, err
	}
	m.SetBranch(branch)
	return m, nil
}
