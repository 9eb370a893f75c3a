package service

import (
	"context"
	"time"

	"sauna_automation/internal/logger"
)

// SchedulerService triggers automation runs on a fixed cadence.
type SchedulerService struct {
	automation Automation
	log        *logger.Logger
}

func NewSchedulerService(automation Automation, log *logger.Logger) *SchedulerService {
	return &SchedulerService{automation: automation, log: log}
}

// Run checks once right away and then every interval until ctx is canceled.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.log.Infow("Scheduler started", "interval", interval)
	defer s.log.Infow("Scheduler stopped")

	s.automation.Check(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.automation.Check(ctx)
		}
	}
}
