package models

import "time"

// Event types written to the run history.
const (
	EventTurnOn       = "TURN_ON"
	EventTurnOff      = "TURN_OFF"
	EventControlError = "CONTROL_ERROR"
	EventFetchError   = "FETCH_ERROR"
	EventManualStart  = "MANUAL_START"
	EventManualStop   = "MANUAL_STOP"
	EventLightToggle  = "LIGHT_TOGGLE"
)

// AutomationEvent is a single history entry.
type AutomationEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // TURN_ON | TURN_OFF | CONTROL_ERROR | FETCH_ERROR | MANUAL_*
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
