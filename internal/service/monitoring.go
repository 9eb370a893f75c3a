package service

import (
	"context"

	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
	"sauna_automation/internal/repository"
)

const statusUnavailable = "heater status unavailable"

type MonitoringService struct {
	heater HeaterController
	marker repository.MarkerRepo
	log    *logger.Logger
}

func NewMonitoringService(ctl HeaterController, marker repository.MarkerRepo, log *logger.Logger) *MonitoringService {
	return &MonitoringService{heater: ctl, marker: marker, log: log}
}

// GetStatus merges the live heater status with the automation marker. The
// report is always well formed; err is set when the heater could not be
// queried, in which case the live fields are null and the mode is unknown.
func (s *MonitoringService) GetStatus(ctx context.Context) (models.StatusReport, error) {
	var report models.StatusReport
	if m := s.marker.Read(); m != nil {
		report.Automatic = m.Automatic
		ts := m.Timestamp
		report.Timestamp = &ts
	}

	st, err := s.heater.Status(ctx)
	if err != nil {
		s.log.Warnw("Heater status query failed", "err", err)
		report.Mode = models.ModeUnknown
		report.Error = statusUnavailable + ": " + err.Error()
		return report, err
	}

	temp := st.Temperature
	code := st.StatusCode
	report.Temperature = &temp
	report.StatusCode = &code
	report.IsOn = st.IsOn
	report.Mode = deriveMode(st.IsOn, report.Automatic)
	return report, nil
}

// deriveMode tells automatic from manual heating. A missing marker while the
// heater is on means someone else started it.
func deriveMode(isOn, automatic bool) string {
	switch {
	case !isOn:
		return models.ModeOff
	case automatic:
		return models.ModeAutomatic
	default:
		return models.ModeManual
	}
}
