package memory

import (
	"context"
	"sync"
	"time"

	"math-quiz-service/internal/domain"
)

// CreditLedger is an in-process reward capability. Balances are lost on restart.
type CreditLedger struct {
	clock func() time.Time

	mu       sync.RWMutex
	accounts map[string]*account
}

type account struct {
	participant domain.Participant
	balance     int
	updatedAt   time.Time
}

func NewCreditLedger() *CreditLedger {
	return &CreditLedger{
		clock:    time.Now,
		accounts: make(map[string]*account),
	}
}

// GrantReward adds amount to the participant's balance.
func (l *CreditLedger) GrantReward(_ context.Context, participant domain.Participant, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[participant.ID]
	if !ok {
		acc = &account{}
		l.accounts[participant.ID] = acc
	}
	acc.participant = participant
	acc.balance += amount
	acc.updatedAt = l.clock()
	return nil
}

// Balance returns the credits granted so far.
func (l *CreditLedger) Balance(_ context.Context, participantID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acc, ok := l.accounts[participantID]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	return acc.balance, nil
}
