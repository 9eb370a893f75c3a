package service

import (
	"context"
	"time"

	"sauna_automation/internal/models"
)

// UpcomingHorizon bounds the reservation listing.
const UpcomingHorizon = 7 * 24 * time.Hour

type ReservationService struct {
	calendar ReservationSource
	now      func() time.Time
}

func NewReservationService(calendar ReservationSource, now func() time.Time) *ReservationService {
	return &ReservationService{calendar: calendar, now: now}
}

// Upcoming returns reservations starting within the next seven days.
func (s *ReservationService) Upcoming(ctx context.Context) ([]models.Reservation, error) {
	all, err := s.calendar.FetchReservations(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	until := now.Add(UpcomingHorizon)

	out := make([]models.Reservation, 0, len(all))
	for _, r := range sortedByStart(all) {
		if r.Start.Before(now) || r.Start.After(until) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
