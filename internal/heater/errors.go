package heater

import (
	"errors"
	"fmt"
)

// Safe target temperature range of the heater, in °C.
const (
	MinTemperature = 40
	MaxTemperature = 110
)

// ErrInvalidTemperature is returned by TurnOn before any request is made.
var ErrInvalidTemperature = errors.New("invalid target temperature")

// ValidateTemperature checks a target against the device's safe range.
func ValidateTemperature(t int) error {
	if t < MinTemperature || t > MaxTemperature {
		return fmt.Errorf("%w: %d is outside %d–%d °C", ErrInvalidTemperature, t, MinTemperature, MaxTemperature)
	}
	return nil
}

// bodyExcerptLen bounds how much of an error response is kept.
const bodyExcerptLen = 300

// ControlError is a failed heater command: either the request never got an
// answer (Err set) or the service answered with a non-2xx status.
type ControlError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ControlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("heater %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("heater %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ControlError) Unwrap() error { return e.Err }

func excerpt(b []byte) string {
	if len(b) > bodyExcerptLen {
		b = b[:bodyExcerptLen]
	}
	return string(b)
}
