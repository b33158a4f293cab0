package sir

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every construction-time parameter failure.
var ErrInvalidParameter = errors.New("sir: invalid parameter")

// ParameterError reports which model parameter was rejected and why.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("sir: invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
