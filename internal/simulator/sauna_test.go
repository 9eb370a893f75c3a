package simulator

import (
	"errors"
	"math"
	"testing"
	"time"

	"sauna_automation/internal/heater"
	"sauna_automation/internal/models"
)

// ---- Test doubles ----

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time      { return c.t }
func (c *manualClock) add(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *manualClock               { return &manualClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)} }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ---- Tests ----

func TestSauna_HeatsTowardTargetAndHolds(t *testing.T) {
	clk := newClock()
	s := New(1, clk.now)

	st, err := s.Start(80)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.IsOn || st.StatusCode != models.StatusHeating {
		t.Fatalf("expected heating, got %+v", st)
	}

	clk.add(100 * time.Second)
	st = s.Status()
	want := AmbientC + RampUpCPerSec*100
	if !approx(st.Temperature, want) {
		t.Fatalf("temperature: got %.2f, want %.2f", st.Temperature, want)
	}

	clk.add(2 * time.Hour)
	if st = s.Status(); st.Temperature != 80 {
		t.Fatalf("expected clamp at target, got %.2f", st.Temperature)
	}
}

func TestSauna_StopCoolsToAmbient(t *testing.T) {
	clk := newClock()
	s := New(1, clk.now)
	_, _ = s.Start(90)
	clk.add(30 * time.Minute)
	hot := s.Stop()
	if hot.IsOn || hot.StatusCode != models.StatusIdle {
		t.Fatalf("expected idle after stop, got %+v", hot)
	}

	clk.add(10 * time.Second)
	st := s.Status()
	want := hot.Temperature - CoolDownCPerSec*10
	if !approx(st.Temperature, want) {
		t.Fatalf("temperature: got %.2f, want %.2f", st.Temperature, want)
	}

	clk.add(24 * time.Hour)
	if st = s.Status(); st.Temperature != AmbientC {
		t.Fatalf("expected ambient, got %.2f", st.Temperature)
	}
}

func TestSauna_RejectsUnsafeTarget(t *testing.T) {
	s := New(1, newClock().now)
	if _, err := s.Start(heater.MaxTemperature + 5); !errors.Is(err, heater.ErrInvalidTemperature) {
		t.Fatalf("expected ErrInvalidTemperature, got %v", err)
	}
	if s.Status().IsOn {
		t.Fatalf("rejected start must not heat")
	}
}

func TestSauna_SafetyCutOff(t *testing.T) {
	clk := newClock()
	s := New(1, clk.now)
	_, _ = s.Start(90)
	clk.add(DefaultMaxOn + time.Minute)
	if st := s.Status(); st.IsOn {
		t.Fatalf("expected cut-off after %v, got %+v", DefaultMaxOn, st)
	}
}

func TestSauna_SpeedScalesElapsed(t *testing.T) {
	clk := newClock()
	s := New(60, clk.now)
	_, _ = s.Start(90)
	clk.add(time.Second)
	want := AmbientC + RampUpCPerSec*60
	if st := s.Status(); !approx(st.Temperature, want) {
		t.Fatalf("temperature: got %.2f, want %.2f", st.Temperature, want)
	}
}

func TestSauna_ToggleLight(t *testing.T) {
	s := New(1, newClock().now)
	if !s.ToggleLight().Light {
		t.Fatalf("expected light on")
	}
	if s.ToggleLight().Light {
		t.Fatalf("expected light off")
	}
}
