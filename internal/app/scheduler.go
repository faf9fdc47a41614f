package app

import (
	"sync"
	"time"
)

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall time so rounds can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler runs chained one-shot callbacks. Each callback gets its own
// cancel func; a cancelled or stopped callback never runs, even when its
// timer has already fired and is waiting on the lock.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]Timer
	stopped bool
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		pending: make(map[uint64]Timer),
	}
}

// After runs fn once, d from now. The returned cancel func may be called any
// number of times, before or after fn ran.
func (s *Scheduler) After(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.pending[id] = s.clock.AfterFunc(d, func() {
		if s.take(id) {
			fn()
		}
	})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.pending[id]; ok {
			t.Stop()
			delete(s.pending, id)
		}
	}
}

// take removes id from the pending set and reports whether it was still live.
func (s *Scheduler) take(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// Pending returns the number of callbacks waiting to run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending callback and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}
