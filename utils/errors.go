package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns an error specifying that there is an issue with the config at the given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}
