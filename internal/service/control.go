package service

import (
	"context"

	"sauna_automation/internal/heater"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
)

// ControlService is the manual override: start, stop and light. It never
// touches the automation marker.
type ControlService struct {
	heater        HeaterController
	history       *history
	defaultTarget int
	log           *logger.Logger
}

func NewControlService(ctl HeaterController, hist *history, defaultTarget int, log *logger.Logger) *ControlService {
	return &ControlService{heater: ctl, history: hist, defaultTarget: defaultTarget, log: log}
}

// DefaultTarget is used when a start request names no temperature.
func (s *ControlService) DefaultTarget() int { return s.defaultTarget }

// Start turns the heater on. A zero target means the configured default.
// Out-of-range targets fail with heater.ErrInvalidTemperature before any request.
func (s *ControlService) Start(ctx context.Context, target int) (models.HeaterStatus, error) {
	if target == 0 {
		target = s.defaultTarget
	}
	if err := heater.ValidateTemperature(target); err != nil {
		return models.HeaterStatus{}, err
	}
	st, err := s.heater.TurnOn(ctx, target)
	if err != nil {
		s.log.Errorw("Manual start failed", "target", target, "err", err)
		s.history.record(ctx, models.EventControlError, "Manual start failed", map[string]any{"target": target, "error": err.Error()})
		return models.HeaterStatus{}, err
	}
	s.log.Infow("Heater started manually", "target", target, "status_code", st.StatusCode)
	s.history.record(ctx, models.EventManualStart, "Heater started manually", map[string]any{"target": target})
	return st, nil
}

// Stop turns the heater off.
func (s *ControlService) Stop(ctx context.Context) (models.HeaterStatus, error) {
	st, err := s.heater.TurnOff(ctx)
	if err != nil {
		s.log.Errorw("Manual stop failed", "err", err)
		s.history.record(ctx, models.EventControlError, "Manual stop failed", map[string]any{"error": err.Error()})
		return models.HeaterStatus{}, err
	}
	s.log.Infow("Heater stopped manually", "status_code", st.StatusCode)
	s.history.record(ctx, models.EventManualStop, "Heater stopped manually", nil)
	return st, nil
}

// ToggleLight switches the sauna light.
func (s *ControlService) ToggleLight(ctx context.Context) (models.HeaterStatus, error) {
	st, err := s.heater.ToggleLight(ctx)
	if err != nil {
		s.log.Errorw("Light toggle failed", "err", err)
		return models.HeaterStatus{}, err
	}
	s.history.record(ctx, models.EventLightToggle, "Light toggled", map[string]any{"light": st.Light})
	return st, nil
}
