package shapes

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter rejects a construction with a non-positive length,
	// a negative margin or a non-finite value.
	ErrInvalidParameter = errors.New("shapes: invalid parameter")

	// ErrVariantMismatch signals a shape used as a kind it is not.
	ErrVariantMismatch = errors.New("shapes: variant mismatch")
)

// ParameterError describes which constructor argument was rejected.
type ParameterError struct {
	Kind  Kind
	Param string
	Value float32
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("shapes: invalid %s %s: %v", e.Kind, e.Param, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func variantError(want, got Kind) error {
	return fmt.Errorf("%w: want %s, have %s", ErrVariantMismatch, want, got)
}
