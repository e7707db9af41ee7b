package window

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned by Parse for unrecognised window names.
	ErrUnknownType = errors.New("unknown window type")

	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
)

func unknownType(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateTukey(size int, alpha float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("tukey alpha must be in [0,1]: %f", alpha)
	}
	return nil
}
