package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"sauna_automation/internal/config"
	"sauna_automation/internal/heater"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
	"sauna_automation/internal/repository"
)

// AutomationService runs the reservation-driven heater automation. Runs are
// serialized; a run that finds another one in progress is skipped.
type AutomationService struct {
	cfg      config.Automation
	calendar ReservationSource
	heater   HeaterController
	marker   repository.MarkerRepo
	history  *history
	observer RunObserver
	now      func() time.Time
	log      *logger.Logger

	mu sync.Mutex
}

func NewAutomationService(
	cfg config.Automation,
	calendar ReservationSource,
	ctl HeaterController,
	marker repository.MarkerRepo,
	hist *history,
	observer RunObserver,
	now func() time.Time,
	log *logger.Logger,
) *AutomationService {
	return &AutomationService{
		cfg:      cfg,
		calendar: calendar,
		heater:   ctl,
		marker:   marker,
		history:  hist,
		observer: observer,
		now:      now,
		log:      log,
	}
}

// Check performs one automation run and reports what it decided and did.
// It never fails: every error ends the run without further side effects and
// is reported in the Decision.
func (s *AutomationService) Check(ctx context.Context) models.Decision {
	if !s.mu.TryLock() {
		s.log.Warnw("Automation run skipped", "reason", ReasonBusy)
		d := models.Decision{Action: models.ActionNone, Reason: ReasonBusy, EvaluatedAt: s.now().UTC()}
		s.observe(d, 0)
		return d
	}
	defer s.mu.Unlock()

	began := time.Now()
	d := s.check(ctx, s.now().UTC())
	s.observe(d, time.Since(began))
	return d
}

func (s *AutomationService) observe(d models.Decision, took time.Duration) {
	if s.observer != nil {
		s.observer.ObserveRun(d, took)
	}
}

func (s *AutomationService) check(ctx context.Context, now time.Time) models.Decision {
	s.log.Infow("Automation run started", "now", now)

	reservations, err := s.calendar.FetchReservations(ctx)
	if err != nil {
		s.log.Errorw("Calendar fetch failed, no action taken", "err", err)
		s.history.record(ctx, models.EventFetchError, "Calendar fetch failed", map[string]any{"error": err.Error()})
		return models.Decision{Action: models.ActionNone, Reason: ReasonFetchFailed, Error: err.Error(), EvaluatedAt: now}
	}
	s.log.Infow("Calendar fetched", "reservations", len(reservations))

	plan := Evaluate(reservations, now, s.cfg)
	d := models.Decision{Action: plan.Action, Reason: plan.Reason, Reservation: plan.Reservation, EvaluatedAt: now}

	if plan.Idle() {
		_ = s.marker.Clear(true)
		s.log.Infow("No reservation nearby, marker cleared if present")
		return d
	}

	rel := plan.Reservation
	s.log.Infow("Relevant reservation selected",
		"title", rel.Title, "start", rel.Start, "end", rel.End, "action", plan.Action, "reason", plan.Reason)

	switch plan.Action {
	case models.ActionTurnOn:
		s.turnOn(ctx, &d)
	case models.ActionTurnOff:
		s.turnOff(ctx, &d)
	}
	return d
}

func (s *AutomationService) turnOn(ctx context.Context, d *models.Decision) {
	rel := d.Reservation
	st, err := s.heater.TurnOn(ctx, s.cfg.TargetTemperature)
	if err != nil {
		s.fail(ctx, d, "start", err)
		return
	}
	d.Executed = true
	s.log.Infow("Heater turned on", "title", rel.Title, "start", rel.Start,
		"target", s.cfg.TargetTemperature, "status_code", st.StatusCode)
	_ = s.marker.Record(true)
	s.history.record(ctx, models.EventTurnOn, "Heater turned on ahead of "+titleOrDefault(rel.Title), map[string]any{
		"reservation_start": rel.Start,
		"target":            s.cfg.TargetTemperature,
		"status_code":       st.StatusCode,
	})
}

func (s *AutomationService) turnOff(ctx context.Context, d *models.Decision) {
	rel := d.Reservation
	st, err := s.heater.TurnOff(ctx)
	if err != nil {
		s.fail(ctx, d, "stop", err)
		return
	}
	d.Executed = true
	s.log.Infow("Heater turned off", "title", rel.Title, "end", rel.End, "status_code", st.StatusCode)
	_ = s.marker.Clear(false)
	s.history.record(ctx, models.EventTurnOff, "Heater turned off after "+titleOrDefault(rel.Title), map[string]any{
		"reservation_end": rel.End,
		"status_code":     st.StatusCode,
	})
}

func (s *AutomationService) fail(ctx context.Context, d *models.Decision, op string, err error) {
	d.Error = err.Error()
	if errors.Is(err, heater.ErrInvalidTemperature) {
		s.log.Errorw("Heater command rejected, check automation.target_temperature", "op", op, "err", err)
	} else {
		s.log.Errorw("Heater command failed, retrying on the next run", "op", op, "err", err)
	}
	s.history.record(ctx, models.EventControlError, "Heater "+op+" failed", map[string]any{
		"action": d.Action,
		"error":  err.Error(),
	})
}

func titleOrDefault(title string) string {
	if title == "" {
		return "untitled reservation"
	}
	return title
}
