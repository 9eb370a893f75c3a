package service

import (
	"context"
	"sync"
	"time"

	"sauna_automation/internal/config"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
)

// ---- Test doubles ----

type fakeCalendar struct {
	mu    sync.Mutex
	res   []models.Reservation
	err   error
	calls int
}

func (f *fakeCalendar) FetchReservations(ctx context.Context) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Reservation, len(f.res))
	copy(out, f.res)
	return out, nil
}

type fakeHeater struct {
	mu          sync.Mutex
	onTargets   []int
	offCalls    int
	statusCalls int
	lightCalls  int

	onErr, offErr, statusErr, lightErr error
	status                             models.HeaterStatus

	// When set, TurnOn signals started and waits for release.
	started chan struct{}
	release chan struct{}
}

func (f *fakeHeater) TurnOn(ctx context.Context, target int) (models.HeaterStatus, error) {
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onTargets = append(f.onTargets, target)
	if f.onErr != nil {
		return models.HeaterStatus{}, f.onErr
	}
	return models.HeaterStatus{StatusCode: models.StatusHeating, IsOn: true, TargetTemperature: float64(target)}, nil
}

func (f *fakeHeater) TurnOff(ctx context.Context) (models.HeaterStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offCalls++
	if f.offErr != nil {
		return models.HeaterStatus{}, f.offErr
	}
	return models.HeaterStatus{StatusCode: models.StatusIdle}, nil
}

func (f *fakeHeater) Status(ctx context.Context) (models.HeaterStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.status, f.statusErr
}

func (f *fakeHeater) ToggleLight(ctx context.Context) (models.HeaterStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lightCalls++
	if f.lightErr != nil {
		return models.HeaterStatus{}, f.lightErr
	}
	f.status.Light = !f.status.Light
	return f.status, nil
}

func (f *fakeHeater) commands() (on, off int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.onTargets), f.offCalls
}

type fakeMarker struct {
	mu      sync.Mutex
	now     time.Time
	current *models.AutomationMarker
	records []bool
	clears  []bool // quiet flag of every Clear call
}

func (m *fakeMarker) Record(automatic bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, automatic)
	m.current = &models.AutomationMarker{Automatic: automatic, Timestamp: m.now}
	return nil
}

func (m *fakeMarker) Clear(quiet bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears = append(m.clears, quiet)
	m.current = nil
	return nil
}

func (m *fakeMarker) Read() *models.AutomationMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

type recordingObserver struct {
	mu        sync.Mutex
	decisions []models.Decision
}

func (o *recordingObserver) ObserveRun(d models.Decision, took time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.decisions = append(o.decisions, d)
}

// ---- Helpers ----

func testAutomationConfig() config.Automation {
	return config.Automation{
		TargetTemperature: 92,
		EarlyStart:        65 * time.Minute,
		MinLead:           1 * time.Minute,
		GapKeepOn:         65 * time.Minute,
		Grace:             5 * time.Minute,
	}
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

type harness struct {
	svc      *AutomationService
	cal      *fakeCalendar
	heater   *fakeHeater
	marker   *fakeMarker
	events   *fakeEventRepo
	observer *recordingObserver
	cfg      config.Automation
	now      time.Time
}

func newHarness(now time.Time, res ...models.Reservation) *harness {
	h := &harness{
		cal:      &fakeCalendar{res: res},
		heater:   &fakeHeater{},
		marker:   &fakeMarker{now: now},
		events:   &fakeEventRepo{},
		observer: &recordingObserver{},
		cfg:      testAutomationConfig(),
		now:      now,
	}
	h.rebuild()
	return h
}

// rebuild recreates the service after h.cfg or h.now changed.
func (h *harness) rebuild() {
	clock := fixedClock(h.now)
	hist := newHistory(h.events, 24*time.Hour, clock, logger.Nop())
	h.svc = NewAutomationService(h.cfg, h.cal, h.heater, h.marker, hist, h.observer, clock, logger.Nop())
}

func reservation(start, end time.Time, title string) models.Reservation {
	return models.Reservation{Start: start, End: end, Title: title}
}

// fakeEventRepo records queries and appends in place of the sqlite history.
type fakeEventRepo struct {
	mu sync.Mutex

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	calls   int
	events  []models.AutomationEvent
	err     error

	appended     []models.AutomationEvent
	appendErr    error
	prunedBefore []time.Time
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AutomationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.AutomationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prunedBefore = append(f.prunedBefore, before)
	return 0, nil
}

// types returns the types of all appended events in order.
func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}
