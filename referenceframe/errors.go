package referenceframe

import (
	"github.com/pkg/errors"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other Transform errors.
const OOBErrString = "input out of bounds"

var (
	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")

	// ErrCircularReference is returned when a link's parent chain loops back onto itself.
	ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

	// ErrNeedOneEndEffector is returned when a kinematics file does not describe exactly one serial chain.
	ErrNeedOneEndEffector = errors.New("need exactly one end effector")
)

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the DoF of the frame.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewFrameIndexError returns an error indicating that a frame number is not part of the chain.
func NewFrameIndexError(frame, numFrames int) error {
	return errors.Errorf("frame %d is not in the chain, frames are numbered 1 to %d", frame, numFrames)
}

// NewReservedWordError is used when a kinematics file uses a name that is reserved.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a link is referenced but not defined.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return errors.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewDuplicateLinkError is used when a kinematics file defines two links with the same id.
func NewDuplicateLinkError(id string) error {
	return errors.Errorf("link id '%s' is defined more than once", id)
}

// NewUnsupportedParamTypeError is used when a kinematics file uses a parametrization other than DH.
func NewUnsupportedParamTypeError(paramType string) error {
	return errors.Errorf("unsupported param type: %q, supported param type is DH", paramType)
}

// NewOOBError returns an error describing an input that lies outside of its joint limit.
func NewOOBError(value float64, limit Limit) error {
	return errors.Errorf("%.5f %s %v", value, OOBErrString, limit)
}
