package retrograde

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIntersection is returned when the line does not cross the circle.
	ErrNoIntersection = errors.New("line does not intersect the circle")
	// ErrDegenerateLine is returned when both points defining the line are the same.
	ErrDegenerateLine = errors.New("coincident points do not define a line")
	// ErrInvalidCircle is returned for a circle with a non positive radius.
	ErrInvalidCircle = errors.New("circle radius must be positive")
)

// ConfigError is an invalid initial condition or setting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}
