package service

import (
	"context"
	"time"

	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
	"sauna_automation/internal/repository"
)

// history appends to the run history and prunes entries past retention.
// Failures are logged only.
type history struct {
	repo      repository.EventRepo
	retention time.Duration
	now       func() time.Time
	log       *logger.Logger
}

func newHistory(repo repository.EventRepo, retention time.Duration, now func() time.Time, log *logger.Logger) *history {
	return &history{repo: repo, retention: retention, now: now, log: log}
}

func (h *history) record(ctx context.Context, typ, description string, meta map[string]any) {
	if h == nil || h.repo == nil {
		return
	}
	now := h.now().UTC()
	ev := models.AutomationEvent{OccurredAt: now, Type: typ, Description: description}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := h.repo.Append(ctx, ev); err != nil {
		h.log.Warnw("History append failed", "type", typ, "err", err)
		return
	}
	if h.retention <= 0 {
		return
	}
	if n, err := h.repo.Prune(ctx, now.Add(-h.retention)); err != nil {
		h.log.Warnw("History prune failed", "err", err)
	} else if n > 0 {
		h.log.Debugw("History pruned", "removed", n)
	}
}
