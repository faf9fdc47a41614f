package app

import (
	"sort"
	"sync"
	"time"

	"math-quiz-service/internal/domain"
)

// Hub tracks connected participants and fans chat lines out to subscribers.
type Hub struct {
	now          func() time.Time
	mu           sync.RWMutex
	participants map[string]*member
	subscribers  map[chan domain.ChatLine]struct{}
}

type member struct {
	participant domain.Participant
	connections int
	joinedAt    time.Time
}

func NewHub() *Hub {
	return NewHubWithClock(time.Now)
}

// NewHubWithClock allows deterministic timestamps in tests.
func NewHubWithClock(now func() time.Time) *Hub {
	return &Hub{
		now:          now,
		participants: make(map[string]*member),
		subscribers:  make(map[chan domain.ChatLine]struct{}),
	}
}

// Join registers a participant connection and refreshes the display name.
// A participant may hold several connections.
func (h *Hub) Join(p domain.Participant) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.participants[p.ID]; ok {
		m.participant.DisplayName = p.DisplayName
		m.connections++
		return
	}
	h.participants[p.ID] = &member{participant: p, connections: 1, joinedAt: h.now()}
}

// Leave drops one connection of a participant.
func (h *Hub) Leave(participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.participants[participantID]
	if !ok {
		return
	}
	m.connections--
	if m.connections <= 0 {
		delete(h.participants, participantID)
	}
}

// Participants returns connected participants ordered by join time, then name.
func (h *Hub) Participants() []domain.Participant {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*member, 0, len(h.participants))
	for _, m := range h.participants {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].joinedAt.Equal(members[j].joinedAt) {
			return members[i].joinedAt.Before(members[j].joinedAt)
		}
		return members[i].participant.DisplayName < members[j].participant.DisplayName
	})

	out := make([]domain.Participant, 0, len(members))
	for _, m := range members {
		out = append(out, m.participant)
	}
	return out
}

// Subscribe returns a channel that receives every broadcast line.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *Hub) Subscribe() (<-chan domain.ChatLine, func()) {
	ch := make(chan domain.ChatLine, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast sends line to every subscriber without blocking.
func (h *Hub) Broadcast(line domain.ChatLine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(line)
}

func (h *Hub) broadcastLocked(line domain.ChatLine) {
	for ch := range h.subscribers {
		select {
		case ch <- line:
		default:
			// Slow subscriber: drop its oldest line to make room.
			select {
			case <-ch:
			default:
			}
			ch <- line
		}
	}
}
