package service

import (
	"sort"
	"time"

	"sauna_automation/internal/config"
	"sauna_automation/internal/models"
)

// Reasons attached to a Decision.
const (
	ReasonIdle        = "no relevant reservation"
	ReasonPreheat     = "reservation starts within the pre-heat window"
	ReasonTooEarly    = "reservation starts outside the pre-heat window"
	ReasonInProgress  = "reservation in progress"
	ReasonBackToBack  = "next reservation starts within the keep-on gap"
	ReasonEnded       = "reservation ended"
	ReasonFetchFailed = "calendar fetch failed"
	ReasonBusy        = "run already in progress"
)

// DefaultGrace keeps a reservation relevant for a while after it ends.
const DefaultGrace = 5 * time.Minute

// Window is the pre-heat window of a run: a reservation starting in
// [EarliestStart, LatestStart] may be pre-heated at Now.
type Window struct {
	Now           time.Time
	EarliestStart time.Time
	LatestStart   time.Time
}

func NewWindow(now time.Time, cfg config.Automation) Window {
	now = now.UTC()
	return Window{
		Now:           now,
		EarliestStart: now.Add(cfg.MinLead),
		LatestStart:   now.Add(cfg.EarlyStart),
	}
}

// Contains reports whether start falls inside the window, bounds included.
func (w Window) Contains(start time.Time) bool {
	return !start.Before(w.EarliestStart) && !start.After(w.LatestStart)
}

// SelectRelevant returns the first reservation, in start order, that ends
// after now-grace.
func SelectRelevant(sorted []models.Reservation, now time.Time, grace time.Duration) (models.Reservation, bool) {
	cutoff := now.Add(-grace)
	for _, r := range sorted {
		if r.End.After(cutoff) {
			return r, true
		}
	}
	return models.Reservation{}, false
}

// NextAfter returns the first reservation starting strictly after end.
func NextAfter(sorted []models.Reservation, end time.Time) (models.Reservation, bool) {
	for _, r := range sorted {
		if r.Start.After(end) {
			return r, true
		}
	}
	return models.Reservation{}, false
}

// Plan is what a run should do, before anything is executed.
type Plan struct {
	Action      string
	Reason      string
	Reservation *models.Reservation
}

// Idle reports whether no reservation was relevant.
func (p Plan) Idle() bool { return p.Reservation == nil }

// Evaluate classifies now against the relevant reservation. It is pure: the
// same reservations, time and settings always give the same plan.
//
// Overlapping reservations are not merged; selection and the next-after scan
// assume they do not overlap.
func Evaluate(reservations []models.Reservation, now time.Time, cfg config.Automation) Plan {
	sorted := sortedByStart(reservations)
	w := NewWindow(now, cfg)

	grace := cfg.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	rel, ok := SelectRelevant(sorted, w.Now, grace)
	if !ok {
		return Plan{Action: models.ActionNone, Reason: ReasonIdle}
	}
	plan := Plan{Action: models.ActionNone, Reservation: &rel}

	switch {
	case w.Now.Before(rel.Start):
		if w.Contains(rel.Start) {
			plan.Action, plan.Reason = models.ActionTurnOn, ReasonPreheat
		} else {
			plan.Reason = ReasonTooEarly
		}
	case !w.Now.After(rel.End):
		plan.Reason = ReasonInProgress
	default:
		if next, ok := NextAfter(sorted, rel.End); ok && next.Start.Sub(rel.End) < cfg.GapKeepOn {
			plan.Reason = ReasonBackToBack
		} else {
			plan.Action, plan.Reason = models.ActionTurnOff, ReasonEnded
		}
	}
	return plan
}

func sortedByStart(in []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
