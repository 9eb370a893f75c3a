package service

import (
	"context"
	"time"

	"sauna_automation/internal/config"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
	"sauna_automation/internal/repository"
)

// ReservationSource yields reservations sorted by start.
type ReservationSource interface {
	FetchReservations(ctx context.Context) ([]models.Reservation, error)
}

// HeaterController is the heater control service.
type HeaterController interface {
	TurnOn(ctx context.Context, target int) (models.HeaterStatus, error)
	TurnOff(ctx context.Context) (models.HeaterStatus, error)
	Status(ctx context.Context) (models.HeaterStatus, error)
	ToggleLight(ctx context.Context) (models.HeaterStatus, error)
}

// RunObserver is told about every automation run, e.g. to export metrics.
type RunObserver interface {
	ObserveRun(d models.Decision, took time.Duration)
}

// Automation is the reservation-driven decision engine.
type Automation interface {
	Check(ctx context.Context) models.Decision
}

// Control exposes manual heater overrides.
type Control interface {
	Start(ctx context.Context, target int) (models.HeaterStatus, error)
	Stop(ctx context.Context) (models.HeaterStatus, error)
	ToggleLight(ctx context.Context) (models.HeaterStatus, error)
	DefaultTarget() int
}

// Monitoring exposes the merged heater and marker status.
type Monitoring interface {
	GetStatus(ctx context.Context) (models.StatusReport, error)
}

// Reservations lists upcoming bookings.
type Reservations interface {
	Upcoming(ctx context.Context) ([]models.Reservation, error)
}

// EventLog exposes the run history with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AutomationEvent, error)
}

// Scheduler triggers automation runs until ctx is canceled.
type Scheduler interface {
	Run(ctx context.Context, interval time.Duration)
}

type Service struct {
	Automation
	Control
	Monitoring
	Reservations
	EventLog
	Scheduler
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Automation       config.Automation
	HistoryRetention time.Duration
	Calendar         ReservationSource
	Heater           HeaterController
	Repos            *repository.Repository
	Observer         RunObserver      // optional
	Clock            func() time.Time // defaults to time.Now
	Log              *logger.Logger   // defaults to a no-op logger
}

func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	hist := newHistory(d.Repos.Events, d.HistoryRetention, d.Clock, d.Log.Named("history"))
	automation := NewAutomationService(d.Automation, d.Calendar, d.Heater, d.Repos.Marker, hist, d.Observer, d.Clock, d.Log.Named("automation"))

	return &Service{
		Automation:   automation,
		Control:      NewControlService(d.Heater, hist, d.Automation.TargetTemperature, d.Log.Named("control")),
		Monitoring:   NewMonitoringService(d.Heater, d.Repos.Marker, d.Log.Named("monitoring")),
		Reservations: NewReservationService(d.Calendar, d.Clock),
		EventLog:     NewEventLogService(d.Repos.Events, d.HistoryRetention, d.Clock),
		Scheduler:    NewSchedulerService(automation, d.Log.Named("scheduler")),
	}
}
