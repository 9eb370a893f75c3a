package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sauna_automation/internal/models"
)

const testRetention = 30 * 24 * time.Hour

func TestEventLogService_List_Window(t *testing.T) {
	helsinki := time.FixedZone("EET", 2*60*60)
	cutoff := base.Add(-testRetention)

	tests := []struct {
		name     string
		filter   LogFilter
		wantFrom time.Time
		wantTo   time.Time
		wantType string
	}{
		{
			name:     "no bounds starts at retention cutoff",
			filter:   LogFilter{},
			wantFrom: cutoff,
		},
		{
			name:     "from before cutoff is clipped",
			filter:   LogFilter{From: cutoff.Add(-72 * time.Hour), To: base},
			wantFrom: cutoff,
			wantTo:   base,
		},
		{
			name:     "range straddling cutoff keeps its end",
			filter:   LogFilter{From: cutoff.Add(-time.Minute), To: cutoff.Add(time.Hour)},
			wantFrom: cutoff,
			wantTo:   cutoff.Add(time.Hour),
		},
		{
			name:     "local bounds are queried in UTC",
			filter:   LogFilter{From: time.Date(2025, time.March, 1, 8, 0, 0, 0, helsinki), To: time.Date(2025, time.March, 1, 23, 59, 59, 0, helsinki)},
			wantFrom: time.Date(2025, time.March, 1, 6, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, time.March, 1, 21, 59, 59, 0, time.UTC),
		},
		{
			name:     "fetch errors",
			filter:   LogFilter{Type: " fetch_error "},
			wantFrom: cutoff,
			wantType: models.EventFetchError,
		},
		{
			name:     "control errors within a day",
			filter:   LogFilter{From: base.Add(-24 * time.Hour), To: base, Type: "CONTROL_ERROR"},
			wantFrom: base.Add(-24 * time.Hour),
			wantTo:   base,
			wantType: models.EventControlError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEventRepo{events: []models.AutomationEvent{{EventID: "e1", Type: models.EventFetchError}}}
			svc := NewEventLogService(repo, testRetention, fixedClock(base))

			got, err := svc.List(context.Background(), tc.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.calls != 1 {
				t.Fatalf("repo.List calls = %d, want 1", repo.calls)
			}
			if len(got) != 1 || got[0].EventID != "e1" {
				t.Fatalf("repo result not returned: %+v", got)
			}
			if !repo.gotFrom.Equal(tc.wantFrom) || repo.gotFrom.Location() != time.UTC {
				t.Fatalf("from = %v, want %v UTC", repo.gotFrom, tc.wantFrom)
			}
			if !repo.gotTo.Equal(tc.wantTo) {
				t.Fatalf("to = %v, want %v", repo.gotTo, tc.wantTo)
			}
			if !tc.wantTo.IsZero() && repo.gotTo.Location() != time.UTC {
				t.Fatalf("to not in UTC: %v", repo.gotTo.Location())
			}
			if repo.gotType != tc.wantType {
				t.Fatalf("type = %q, want %q", repo.gotType, tc.wantType)
			}
		})
	}
}

func TestEventLogService_List_WindowAlreadyPruned(t *testing.T) {
	repo := &fakeEventRepo{events: []models.AutomationEvent{{EventID: "stale"}}}
	svc := NewEventLogService(repo, testRetention, fixedClock(base))

	cutoff := base.Add(-testRetention)
	got, err := svc.List(context.Background(), LogFilter{
		From: cutoff.Add(-48 * time.Hour),
		To:   cutoff.Add(-time.Second),
		Type: models.EventTurnOn,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty, non-nil result; got %#v", got)
	}
	if repo.calls != 0 {
		t.Fatalf("repo should not be queried for a pruned window; calls = %d", repo.calls)
	}
}

func TestEventLogService_List_NoRetentionKeepsBounds(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewEventLogService(repo, 0, fixedClock(base))

	old := base.AddDate(-1, 0, 0)
	if _, err := svc.List(context.Background(), LogFilter{From: old}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.gotFrom.Equal(old) || !repo.gotTo.IsZero() {
		t.Fatalf("bounds changed without retention: from=%v to=%v", repo.gotFrom, repo.gotTo)
	}
}

func TestEventLogService_List_InvalidFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  LogFilter
		wantErr error
	}{
		{
			name:    "reversed range",
			filter:  LogFilter{From: base, To: base.Add(-time.Minute)},
			wantErr: errReversedWindow,
		},
		{
			name:    "reversed range before cutoff",
			filter:  LogFilter{From: base.Add(-2 * testRetention), To: base.Add(-3 * testRetention)},
			wantErr: errReversedWindow,
		},
		{
			name:    "unknown type",
			filter:  LogFilter{Type: "HEATER_EXPLODED"},
			wantErr: errUnknownEventType,
		},
		{
			name:    "lowercase unknown type",
			filter:  LogFilter{Type: "turn_sideways"},
			wantErr: errUnknownEventType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEventRepo{}
			svc := NewEventLogService(repo, testRetention, fixedClock(base))

			_, err := svc.List(context.Background(), tc.filter)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
			if !IsInvalidFilter(err) {
				t.Fatalf("IsInvalidFilter(%v) = false", err)
			}
			if repo.calls != 0 {
				t.Fatalf("repo should not be called on an invalid filter")
			}
		})
	}
}

func TestEventLogService_List_RepoError(t *testing.T) {
	repoErr := errors.New("database is locked")
	repo := &fakeEventRepo{err: repoErr}
	svc := NewEventLogService(repo, testRetention, fixedClock(base))

	_, err := svc.List(context.Background(), LogFilter{Type: models.EventControlError})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if IsInvalidFilter(err) {
		t.Fatalf("storage failure classified as invalid filter")
	}
}
