package app

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"math-quiz-service/internal/domain"
)

// AnswerTolerance is the largest difference from the expected answer that
// still counts as wrong; anything strictly closer is accepted.
const AnswerTolerance = 0.01

// Round is the single-question state machine. Every transition consults and
// updates the state under one mutex, so an answer and a timeout can never
// both close the same question.
type Round struct {
	mu       sync.Mutex
	now      func() time.Time
	state    domain.RoundState
	question domain.Question
	answered bool
	deadline time.Time
}

// NewRound returns an idle round using the wall clock.
func NewRound() *Round {
	return NewRoundWithClock(time.Now)
}

// NewRoundWithClock allows deterministic timestamps in tests.
func NewRoundWithClock(now func() time.Time) *Round {
	return &Round{now: now, state: domain.RoundIdle}
}

// Ask opens a new question unless one is still open. generate runs under the
// round lock, so it may use a random source that is not goroutine safe.
func (r *Round) Ask(timeout time.Duration, generate func() domain.Question) (domain.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == domain.RoundAsked {
		return domain.Event{}, false
	}

	q := generate()
	q.RoundID = uuid.NewString()
	now := r.now()

	r.question = q
	r.answered = false
	r.deadline = now.Add(timeout)
	r.state = domain.RoundAsked

	return domain.Event{
		Kind:       domain.EventRoundStarted,
		RoundID:    q.RoundID,
		Expression: q.Expression,
		Reward:     q.Reward,
		At:         now,
	}, true
}

// Submit closes the round if text is the first correct answer. Unparsable,
// wrong and late answers are ignored without any state change.
func (r *Round) Submit(participant domain.Participant, text string) (domain.Event, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return domain.Event{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != domain.RoundAsked || r.answered {
		return domain.Event{}, false
	}
	if !(math.Abs(value-r.question.Answer) < AnswerTolerance) {
		return domain.Event{}, false
	}

	r.answered = true
	r.state = domain.RoundClosed

	return domain.Event{
		Kind:        domain.EventRoundAwarded,
		RoundID:     r.question.RoundID,
		Expression:  r.question.Expression,
		Reward:      r.question.Reward,
		Participant: participant,
		Answer:      r.question.Answer,
		At:          r.now(),
	}, true
}

// Expire closes the round identified by roundID if it is still waiting for
// an answer. A timer left over from an earlier round is a no-op.
func (r *Round) Expire(roundID string, cooldown time.Duration) (domain.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != domain.RoundAsked || r.answered || r.question.RoundID != roundID {
		return domain.Event{}, false
	}

	r.state = domain.RoundClosed

	return domain.Event{
		Kind:       domain.EventRoundTimedOut,
		RoundID:    roundID,
		Expression: r.question.Expression,
		Answer:     r.question.Answer,
		Cooldown:   cooldown,
		At:         r.now(),
	}, true
}

// Snapshot returns a copy of the current round for display.
func (r *Round) Snapshot() domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.question
	q.Terms = append([]domain.Term(nil), r.question.Terms...)
	return domain.RoundSnapshot{
		State:    r.state,
		Question: q,
		Answered: r.answered,
		Deadline: r.deadline,
	}
}
