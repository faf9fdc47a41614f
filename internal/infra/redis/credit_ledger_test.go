package redis

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"math-quiz-service/internal/domain"
)

func TestCreditLedgerStoresInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewCreditLedger(newClient(mr))
	if err := ledger.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	alice := domain.Participant{ID: "u1", DisplayName: "Alice"}
	if err := ledger.GrantReward(ctx, alice, 30); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := ledger.GrantReward(ctx, alice, 12); err != nil {
		t.Fatalf("grant: %v", err)
	}

	if got := mr.HGet("quiz:credits", "u1"); got != "42" {
		t.Fatalf("expected 42 in redis hash, got %q", got)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "quiz:credits" {
		t.Fatalf("expected only the credits hash, got %v", keys)
	}
	balance, err := ledger.Balance(ctx, "u1")
	if err != nil || balance != 42 {
		t.Fatalf("expected balance 42, got %d err=%v", balance, err)
	}
}

func TestCreditLedgerUnknownParticipant(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ledger := NewCreditLedger(newClient(mr))
	if _, err := ledger.Balance(context.Background(), "nobody"); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant not found, got %v", err)
	}
}

func TestCreditLedgerUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	ledger := NewCreditLedger(newClient(mr))
	mr.Close()

	if err := ledger.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail once redis is gone")
	}
	if err := ledger.GrantReward(context.Background(), domain.Participant{ID: "u1"}, 5); err == nil {
		t.Fatalf("expected grant to fail once redis is gone")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
