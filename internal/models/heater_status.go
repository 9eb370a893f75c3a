package models

import "time"

// Status codes reported by the heater service.
const (
	StatusOffline    = 230
	StatusHeating    = 231
	StatusIdle       = 232
	StatusLocked     = 233
	StatusEmergency  = 400
	StatusUnreported = 0
)

// HeaterStatus is the normalized answer of every heater command.
type HeaterStatus struct {
	StatusCode        int     `json:"status_code"`
	Temperature       float64 `json:"temperature"`
	TargetTemperature float64 `json:"target_temperature,omitempty"`
	DoorClosed        bool    `json:"door_closed"`
	Light             bool    `json:"light"`
	IsOn              bool    `json:"is_on"`
}

// Modes reported by the status surface.
const (
	ModeAutomatic = "automatic"
	ModeManual    = "manual"
	ModeOff       = "off"
	ModeUnknown   = "unknown"
)

// StatusReport merges the live heater status with the automation marker.
// Pointer fields are null when the heater could not be reached.
type StatusReport struct {
	Temperature *float64   `json:"temperature"`
	IsOn        bool       `json:"is_on"`
	StatusCode  *int       `json:"status_code"`
	Automatic   bool       `json:"automatic"`
	Timestamp   *time.Time `json:"timestamp"`
	Mode        string     `json:"mode"`
	Error       string     `json:"error,omitempty"`
}
