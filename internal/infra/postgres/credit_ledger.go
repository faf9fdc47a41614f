package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/sync/singleflight"

	"math-quiz-service/internal/domain"
)

// CreditLedger persists balances in the credits table.
type CreditLedger struct {
	pool  *pgxpool.Pool
	now   func() time.Time
	reads singleflight.Group
}

func NewCreditLedger(pool *pgxpool.Pool) *CreditLedger {
	return &CreditLedger{pool: pool, now: time.Now}
}

// Ping checks the pool can reach the database.
func (l *CreditLedger) Ping(ctx context.Context) error {
	return l.pool.Ping(ctx)
}

func (l *CreditLedger) GrantReward(ctx context.Context, participant domain.Participant, amount int) error {
	_, err := l.pool.Exec(ctx, `
INSERT INTO credits (participant_id, display_name, balance, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (participant_id) DO UPDATE
SET balance = credits.balance + EXCLUDED.balance,
    display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), credits.display_name),
    updated_at = EXCLUDED.updated_at`,
		participant.ID, participant.DisplayName, amount, l.now().UTC())
	if err != nil {
		return fmt.Errorf("grant credits: %w", err)
	}
	return nil
}

// Balance collapses concurrent lookups for the same participant into one query.
func (l *CreditLedger) Balance(ctx context.Context, participantID string) (int, error) {
	v, err, _ := l.reads.Do(participantID, func() (interface{}, error) {
		var balance int
		err := l.pool.QueryRow(ctx, `SELECT balance FROM credits WHERE participant_id=$1`, participantID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrParticipantNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("read credits: %w", err)
		}
		return balance, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
