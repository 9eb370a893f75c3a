package models

import "time"

// Reservation is one calendar booking. Start and End are UTC, End is after Start.
type Reservation struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

// AutomationMarker records that automation turned the heater on.
type AutomationMarker struct {
	Automatic bool      `json:"automatic"`
	Timestamp time.Time `json:"timestamp"`
}

// Actions taken by a single automation run.
const (
	ActionNone    = "none"
	ActionTurnOn  = "turn_on"
	ActionTurnOff = "turn_off"
)

// Decision describes the outcome of one automation run.
type Decision struct {
	Action      string       `json:"action"`
	Reason      string       `json:"reason"`
	Reservation *Reservation `json:"reservation,omitempty"`
	Executed    bool         `json:"executed"`
	Error       string       `json:"error,omitempty"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}
