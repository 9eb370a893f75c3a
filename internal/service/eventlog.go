package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sauna_automation/internal/models"
	"sauna_automation/internal/repository"
)

// EventLogService answers history queries. Entries older than the retention
// window have already been pruned, so windows are clipped to what can exist.
type EventLogService struct {
	events    repository.EventRepo
	retention time.Duration
	now       func() time.Time
}

// NewEventLogService returns a history reader. A zero retention disables
// clipping; a nil now uses time.Now.
func NewEventLogService(events repository.EventRepo, retention time.Duration, now func() time.Time) *EventLogService {
	if now == nil {
		now = time.Now
	}
	return &EventLogService{events: events, retention: retention, now: now}
}

var (
	errReversedWindow   = errors.New("history window ends before it starts")
	errUnknownEventType = errors.New("unknown history event type")
)

var historyTypes = map[string]struct{}{
	models.EventTurnOn:       {},
	models.EventTurnOff:      {},
	models.EventControlError: {},
	models.EventFetchError:   {},
	models.EventManualStart:  {},
	models.EventManualStop:   {},
	models.EventLightToggle:  {},
}

// IsInvalidFilter reports whether err came from a malformed LogFilter.
func IsInvalidFilter(err error) bool {
	return errors.Is(err, errReversedWindow) || errors.Is(err, errUnknownEventType)
}

// historyWindow is a validated LogFilter in UTC.
type historyWindow struct {
	from, to time.Time
	typ      string
	// pruned is set when the whole window lies before the retention cutoff.
	pruned bool
}

func (s *EventLogService) window(f LogFilter) (historyWindow, error) {
	w := historyWindow{typ: strings.ToUpper(strings.TrimSpace(f.Type))}
	if w.typ != "" {
		if _, ok := historyTypes[w.typ]; !ok {
			return historyWindow{}, fmt.Errorf("%w %q", errUnknownEventType, f.Type)
		}
	}
	if !f.From.IsZero() {
		w.from = f.From.UTC()
	}
	if !f.To.IsZero() {
		w.to = f.To.UTC()
	}
	if !w.from.IsZero() && !w.to.IsZero() && w.from.After(w.to) {
		return historyWindow{}, errReversedWindow
	}

	if s.retention <= 0 {
		return w, nil
	}
	cutoff := s.now().UTC().Add(-s.retention)
	if !w.to.IsZero() && w.to.Before(cutoff) {
		w.pruned = true
		return w, nil
	}
	if w.from.Before(cutoff) {
		w.from = cutoff
	}
	return w, nil
}

// List returns history entries matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.AutomationEvent, error) {
	w, err := s.window(f)
	if err != nil {
		return nil, err
	}
	if w.pruned {
		return []models.AutomationEvent{}, nil
	}
	return s.events.List(ctx, w.from, w.to, w.typ)
}
