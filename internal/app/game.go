package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"math-quiz-service/internal/domain"
)

const defaultRewardGrantTimeout = 5 * time.Second

// Notifier receives round transitions, e.g. to announce them in chat.
type Notifier interface {
	Notify(event domain.Event)
}

// RewardGranter credits a participant. It is the optional reward capability;
// a Game without one still runs rounds.
type RewardGranter interface {
	GrantReward(ctx context.Context, participant domain.Participant, amount int) error
}

// CreditReader reports a participant's accumulated credits.
type CreditReader interface {
	Balance(ctx context.Context, participantID string) (int, error)
}

// CreditLedger is a reward capability that can also report balances.
type CreditLedger interface {
	RewardGranter
	CreditReader
}

// Game drives the quiz: it asks questions on a schedule, accepts answers
// and pays the first correct responder.
type Game struct {
	cfg          atomic.Pointer[domain.QuizConfig]
	clock        Clock
	rng          RNG
	round        *Round
	scheduler    *Scheduler
	notifier     Notifier
	rewards      RewardGranter
	grantTimeout time.Duration

	// mu orders round transitions with their notifications, so listeners
	// always see a round start before its award or timeout.
	mu             sync.Mutex
	cancelDeadline func()
}

// Option customizes a Game.
type Option func(*Game)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithRNG replaces the random source used for questions and rewards.
func WithRNG(rng RNG) Option {
	return func(g *Game) { g.rng = rng }
}

// WithRewards sets the reward capability. Pass nothing when it is unavailable.
func WithRewards(rewards RewardGranter) Option {
	return func(g *Game) { g.rewards = rewards }
}

// WithGrantTimeout bounds a single reward grant.
func WithGrantTimeout(d time.Duration) Option {
	return func(g *Game) {
		if d > 0 {
			g.grantTimeout = d
		}
	}
}

// NewGame validates cfg and builds a stopped Game.
func NewGame(cfg domain.QuizConfig, notifier Notifier, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		clock:        SystemClock(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		notifier:     notifier,
		grantTimeout: defaultRewardGrantTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cfg.Store(&cfg)
	g.round = NewRoundWithClock(g.clock.Now)
	g.scheduler = NewScheduler(g.clock)
	return g, nil
}

// Config returns the settings the next question will use.
func (g *Game) Config() domain.QuizConfig {
	return *g.cfg.Load()
}

// SetConfig swaps the settings atomically. The open question keeps its
// content and deadline; the change applies from the next transition.
func (g *Game) SetConfig(cfg domain.QuizConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg.Store(&cfg)
	return nil
}

// Start schedules the first question one interval from now.
func (g *Game) Start() {
	g.scheduler.After(g.Config().QuestionInterval(), g.ask)
}

// Stop cancels every pending timer. Answers submitted afterwards can still
// close the open question but no new one is asked.
func (g *Game) Stop() {
	g.scheduler.Stop()
}

// Snapshot returns the current round for display.
func (g *Game) Snapshot() domain.RoundSnapshot {
	return g.round.Snapshot()
}

// SubmitAnswer offers text as participant's answer to the open question.
// It reports whether the answer won the round; ignored answers get no
// feedback. The award is announced before the credits are granted.
func (g *Game) SubmitAnswer(ctx context.Context, participant domain.Participant, text string) (domain.Event, bool) {
	if participant.ID == "" {
		return domain.Event{}, false
	}

	event, ok := g.award(participant, text)
	if !ok {
		return domain.Event{}, false
	}
	g.scheduler.After(0, g.ask)
	g.grant(ctx, participant, event.Reward)
	return event, true
}

func (g *Game) award(participant domain.Participant, text string) (domain.Event, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	event, ok := g.round.Submit(participant, text)
	if !ok {
		return domain.Event{}, false
	}
	if g.cancelDeadline != nil {
		g.cancelDeadline()
		g.cancelDeadline = nil
	}
	g.notify(event)
	return event, true
}

// grant pays a winner once. Failures are logged and not retried.
func (g *Game) grant(ctx context.Context, participant domain.Participant, amount int) {
	if g.rewards == nil || amount <= 0 {
		return
	}
	grantCtx, cancel := context.WithTimeout(ctx, g.grantTimeout)
	defer cancel()
	if err := g.rewards.GrantReward(grantCtx, participant, amount); err != nil {
		log.Printf("grant %d credits to %s failed: %v", amount, participant.ID, err)
	}
}

func (g *Game) ask() {
	cfg := g.Config()

	g.mu.Lock()
	defer g.mu.Unlock()

	event, ok := g.round.Ask(cfg.AnswerTimeout(), func() domain.Question {
		q := Generate(cfg, g.rng)
		q.Reward = ComputeReward(cfg, q.OperatorCount, g.rng)
		return q
	})
	if !ok {
		log.Printf("question tick skipped: round still open")
		return
	}

	roundID := event.RoundID
	g.cancelDeadline = g.scheduler.After(cfg.AnswerTimeout(), func() {
		g.expire(roundID)
	})
	g.notify(event)
}

func (g *Game) expire(roundID string) {
	cfg := g.Config()

	g.mu.Lock()
	defer g.mu.Unlock()

	event, ok := g.round.Expire(roundID, cfg.Cooldown())
	if !ok {
		return
	}
	g.cancelDeadline = nil
	g.notify(event)
	g.scheduler.After(event.Cooldown, g.ask)
}

func (g *Game) notify(event domain.Event) {
	if g.notifier != nil {
		g.notifier.Notify(event)
	}
}
