package domain

import (
	"fmt"
	"time"
)

// RewardMode selects how a question's reward is derived.
type RewardMode int

const (
	// RewardDifficultyScaled pays more for questions with more operators.
	RewardDifficultyScaled RewardMode = 1
	// RewardFixedRange pays a uniform random amount in [MinCredits, MaxCredits].
	RewardFixedRange RewardMode = 2
)

func (m RewardMode) String() string {
	switch m {
	case RewardDifficultyScaled:
		return "difficulty"
	case RewardFixedRange:
		return "random"
	default:
		return fmt.Sprintf("RewardMode(%d)", int(m))
	}
}

// QuizConfig holds the settings for question generation and timing.
// A loaded value is never mutated; reloading replaces it.
type QuizConfig struct {
	QuestionIntervalSeconds int                    `yaml:"question_interval_seconds"`
	AnswerTimeoutSeconds    int                    `yaml:"answer_timeout_seconds"`
	MaxCredits              int                    `yaml:"max_credits"`
	MinCredits              int                    `yaml:"min_credits"`
	MaxNumber               int                    `yaml:"max_number"`
	MinNumber               int                    `yaml:"min_number"`
	OperatorChances         Distribution[Operator] `yaml:"operator_chances"`
	OperatorQuantityChances Distribution[int]      `yaml:"operator_quantity_chances"`
	RewardType              RewardMode             `yaml:"reward_type"`
}

// DefaultQuizConfig returns the stock settings.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		QuestionIntervalSeconds: 120,
		AnswerTimeoutSeconds:    90,
		MaxCredits:              100,
		MinCredits:              10,
		MaxNumber:               100,
		MinNumber:               1,
		OperatorChances: NewDistribution(
			Weighted[Operator]{Value: OpAdd, Weight: 40},
			Weighted[Operator]{Value: OpSub, Weight: 20},
			Weighted[Operator]{Value: OpMul, Weight: 25},
			Weighted[Operator]{Value: OpDiv, Weight: 15},
		),
		OperatorQuantityChances: NewDistribution(
			Weighted[int]{Value: 1, Weight: 10},
			Weighted[int]{Value: 2, Weight: 20},
			Weighted[int]{Value: 3, Weight: 40},
			Weighted[int]{Value: 4, Weight: 15},
		),
		RewardType: RewardFixedRange,
	}
}

// QuestionInterval is the time between the start of consecutive rounds when nobody answers.
func (c QuizConfig) QuestionInterval() time.Duration {
	return time.Duration(c.QuestionIntervalSeconds) * time.Second
}

// AnswerTimeout is how long a question stays open.
func (c QuizConfig) AnswerTimeout() time.Duration {
	return time.Duration(c.AnswerTimeoutSeconds) * time.Second
}

// Cooldown is the gap between a timed-out round and the next question.
// It is clamped at zero when the answer timeout exceeds the interval.
func (c QuizConfig) Cooldown() time.Duration {
	gap := c.QuestionIntervalSeconds - c.AnswerTimeoutSeconds
	if gap < 0 {
		gap = 0
	}
	return time.Duration(gap) * time.Second
}

// Validate reports settings that cannot produce a well-formed question.
// A negative cooldown is not an error; see Cooldown.
func (c QuizConfig) Validate() error {
	switch {
	case c.QuestionIntervalSeconds <= 0:
		return fmt.Errorf("%w: question_interval_seconds must be positive", ErrInvalidConfig)
	case c.AnswerTimeoutSeconds <= 0:
		return fmt.Errorf("%w: answer_timeout_seconds must be positive", ErrInvalidConfig)
	case c.MinCredits < 0:
		return fmt.Errorf("%w: min_credits must not be negative", ErrInvalidConfig)
	case c.MinCredits > c.MaxCredits:
		return fmt.Errorf("%w: min_credits %d exceeds max_credits %d", ErrInvalidConfig, c.MinCredits, c.MaxCredits)
	case c.MinNumber > c.MaxNumber:
		return fmt.Errorf("%w: min_number %d exceeds max_number %d", ErrInvalidConfig, c.MinNumber, c.MaxNumber)
	}
	for _, b := range c.OperatorChances.Buckets() {
		if !b.Value.Valid() {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidConfig, b.Value)
		}
		if b.Weight <= 0 {
			return fmt.Errorf("%w: operator %q weight must be positive", ErrInvalidConfig, b.Value)
		}
	}
	for _, b := range c.OperatorQuantityChances.Buckets() {
		if b.Value < 1 {
			return fmt.Errorf("%w: operator count %d must be at least 1", ErrInvalidConfig, b.Value)
		}
		if b.Weight <= 0 {
			return fmt.Errorf("%w: operator count %d weight must be positive", ErrInvalidConfig, b.Value)
		}
	}
	return nil
}
