// Package simulator is a stand-in for the heater control service. It speaks
// the same HTTP API as the real service and heats and cools a virtual sauna.
package simulator

import (
	"context"
	"sync"
	"time"

	"sauna_automation/internal/heater"
	"sauna_automation/internal/models"
)

// ----------- Simulation constants -----------
const (
	AmbientC        = 21.0 // ambient temperature °C
	RampUpCPerSec   = 0.05 // °C per second while heating
	CoolDownCPerSec = 0.02 // °C per second once stopped
	SoakToleranceC  = 0.5  // °C band for "at target"
	DefaultMaxOn    = 3 * time.Hour
)

// Sauna is a virtual heater. It is safe for concurrent use.
type Sauna struct {
	mu         sync.Mutex
	statusCode int
	tempC      float64
	targetC    float64
	light      bool
	doorClosed bool
	heatingAt  time.Time
	updatedAt  time.Time

	// Speed multiplies elapsed time, so tests and demos need not wait.
	speed float64
	maxOn time.Duration
	now   func() time.Time
}

// New returns an idle sauna at ambient temperature.
func New(speed float64, now func() time.Time) *Sauna {
	if now == nil {
		now = time.Now
	}
	if speed <= 0 {
		speed = 1
	}
	return &Sauna{
		statusCode: models.StatusIdle,
		tempC:      AmbientC,
		doorClosed: true,
		speed:      speed,
		maxOn:      DefaultMaxOn,
		now:        now,
		updatedAt:  now(),
	}
}

// Start begins heating toward target. Out-of-range targets are rejected the
// way the real service does.
func (s *Sauna) Start(target int) (models.HeaterStatus, error) {
	if err := heater.ValidateTemperature(target); err != nil {
		return models.HeaterStatus{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.advance(now)
	s.statusCode = models.StatusHeating
	s.targetC = float64(target)
	s.heatingAt = now
	return s.snapshot(), nil
}

// Stop ends heating.
func (s *Sauna) Stop() models.HeaterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(s.now())
	s.stop()
	return s.snapshot()
}

// ToggleLight flips the light.
func (s *Sauna) ToggleLight() models.HeaterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(s.now())
	s.light = !s.light
	return s.snapshot()
}

// Status returns the current state.
func (s *Sauna) Status() models.HeaterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(s.now())
	return s.snapshot()
}

// Run advances the simulation every tick until ctx is canceled.
func (s *Sauna) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.mu.Lock()
			s.advance(now)
			s.mu.Unlock()
		}
	}
}

func (s *Sauna) stop() {
	s.statusCode = models.StatusIdle
	s.targetC = 0
	s.heatingAt = time.Time{}
}

// advance moves the temperature forward to now. Caller holds mu.
func (s *Sauna) advance(now time.Time) {
	elapsed := now.Sub(s.updatedAt).Seconds() * s.speed
	if elapsed <= 0 {
		return
	}
	s.updatedAt = now

	if s.statusCode == models.StatusHeating {
		// Safety cut-off, like the real heater's maximum session length.
		if s.maxOn > 0 && now.Sub(s.heatingAt) >= s.maxOn {
			s.stop()
		} else {
			s.handleHeat(elapsed)
			return
		}
	}
	s.handleCooling(elapsed)
}

// handleHeat ramps toward the target and holds it within tolerance.
func (s *Sauna) handleHeat(elapsed float64) {
	if s.tempC < s.targetC-SoakToleranceC {
		s.tempC = minFloat(s.tempC+RampUpCPerSec*elapsed, s.targetC)
		return
	}
	if s.tempC > s.targetC {
		s.tempC = maxFloat(s.tempC-CoolDownCPerSec*elapsed, s.targetC)
	}
}

// handleCooling drifts toward ambient.
func (s *Sauna) handleCooling(elapsed float64) {
	if s.tempC > AmbientC {
		s.tempC = maxFloat(s.tempC-CoolDownCPerSec*elapsed, AmbientC)
	}
}

func (s *Sauna) snapshot() models.HeaterStatus {
	return models.HeaterStatus{
		StatusCode:        s.statusCode,
		Temperature:       s.tempC,
		TargetTemperature: s.targetC,
		DoorClosed:        s.doorClosed,
		Light:             s.light,
		IsOn:              s.statusCode == models.StatusHeating,
	}
}

// helpers
func maxFloat(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
