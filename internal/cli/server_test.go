package cli

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"math-quiz-service/internal/config"
	"math-quiz-service/internal/domain"
)

func TestResolveLedger(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	if ledger, closeLedger := resolveLedger(ctx, cfg); ledger == nil {
		t.Fatalf("expected in-memory ledger by default")
	} else {
		closeLedger()
	}

	cfg.Rewards.Backend = config.BackendNone
	if ledger, _ := resolveLedger(ctx, cfg); ledger != nil {
		t.Fatalf("expected no ledger when rewards are disabled")
	}
}

func TestResolveLedgerRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	ledger, closeLedger := resolveLedger(context.Background(), cfg)
	if ledger == nil {
		t.Fatalf("expected redis ledger")
	}
	defer closeLedger()

	if err := ledger.GrantReward(context.Background(), domain.Participant{ID: "u1"}, 7); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if got := mr.HGet("quiz:credits", "u1"); got != "7" {
		t.Fatalf("expected credits in redis, got %q", got)
	}
}

func TestResolveLedgerDegradesWhenRedisIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = addr
	if ledger, _ := resolveLedger(context.Background(), cfg); ledger != nil {
		t.Fatalf("expected quiz to run without credits when redis is down")
	}
}
