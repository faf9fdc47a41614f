package app_test

import (
	"testing"
	"time"

	"math-quiz-service/internal/app"
)

func TestSchedulerRunsAfterDelay(t *testing.T) {
	clock := newManualClock()
	s := app.NewScheduler(clock)

	runs := 0
	s.After(10*time.Second, func() { runs++ })

	clock.Advance(9 * time.Second)
	if runs != 0 {
		t.Fatalf("callback ran early")
	}
	clock.Advance(time.Second)
	if runs != 1 {
		t.Fatalf("expected one run, got %d", runs)
	}
	clock.Advance(time.Minute)
	if runs != 1 {
		t.Fatalf("one-shot callback ran again")
	}
	if s.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	clock := newManualClock()
	s := app.NewScheduler(clock)

	runs := 0
	cancel := s.After(time.Second, func() { runs++ })
	cancel()
	cancel()

	clock.Advance(time.Minute)
	if runs != 0 {
		t.Fatalf("cancelled callback ran")
	}
}

func TestSchedulerChainsFromCallback(t *testing.T) {
	clock := newManualClock()
	s := app.NewScheduler(clock)

	var order []string
	s.After(5*time.Second, func() {
		order = append(order, "first")
		s.After(3*time.Second, func() { order = append(order, "second") })
	})

	clock.Advance(7 * time.Second)
	if len(order) != 1 {
		t.Fatalf("chained callback ran too early: %v", order)
	}
	clock.Advance(time.Second)
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("expected chained run, got %v", order)
	}
}

func TestSchedulerStopCancelsPendingAndRejectsNew(t *testing.T) {
	clock := newManualClock()
	s := app.NewScheduler(clock)

	runs := 0
	s.After(time.Second, func() { runs++ })
	s.After(2*time.Second, func() { runs++ })
	s.Stop()
	s.After(time.Second, func() { runs++ })

	clock.Advance(time.Minute)
	if runs != 0 {
		t.Fatalf("expected no runs after stop, got %d", runs)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected nothing pending after stop")
	}
}

func TestSchedulerWithSystemClock(t *testing.T) {
	s := app.NewScheduler(app.SystemClock())
	done := make(chan struct{})
	s.After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never ran")
	}
}
