package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"math-quiz-service/internal/domain"
)

// CreditLedger keeps balances in one Redis hash:
//
//	HINCRBY quiz:credits {participantID} {amount}
type CreditLedger struct {
	client *redis.Client
	prefix string
}

func NewCreditLedger(client *redis.Client) *CreditLedger {
	return &CreditLedger{client: client, prefix: "quiz"}
}

// Ping reports whether Redis is reachable; used when resolving the reward capability.
func (l *CreditLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// GrantReward adds amount to the participant's balance.
func (l *CreditLedger) GrantReward(ctx context.Context, participant domain.Participant, amount int) error {
	if err := l.client.HIncrBy(ctx, l.creditsKey(), participant.ID, int64(amount)).Err(); err != nil {
		return fmt.Errorf("grant credits: %w", err)
	}
	return nil
}

// Balance returns the credits granted so far.
func (l *CreditLedger) Balance(ctx context.Context, participantID string) (int, error) {
	balance, err := l.client.HGet(ctx, l.creditsKey(), participantID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrParticipantNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read credits: %w", err)
	}
	return balance, nil
}

func (l *CreditLedger) creditsKey() string {
	return l.prefix + ":credits"
}
