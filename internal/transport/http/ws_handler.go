package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"math-quiz-service/internal/app"
	"math-quiz-service/internal/domain"
)

type WSHandler struct {
	game     *app.Game
	hub      *app.Hub
	credits  app.CreditReader
	upgrader websocket.Upgrader
}

// NewWSHandler wires chat connections to the game. credits may be nil when
// no reward ledger is available.
func NewWSHandler(game *app.Game, hub *app.Hub, credits app.CreditReader) *WSHandler {
	return &WSHandler{
		game:    game,
		hub:     hub,
		credits: credits,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type sayPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	Participants []domain.Participant `json:"participants"`
	Round        *roundPayload        `json:"round,omitempty"`
}

// roundPayload never carries the answer.
type roundPayload struct {
	RoundID    string    `json:"roundId"`
	Expression string    `json:"expression"`
	Reward     int       `json:"reward"`
	Deadline   time.Time `json:"deadline"`
}

type chatPayload struct {
	Kind domain.EventKind `json:"kind"`
	Text string           `json:"text"`
}

type balancePayload struct {
	Credits int `json:"credits"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and relays chat to the game.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if userID == "" || displayName == "" {
		http.Error(w, "missing userId or name", http.StatusBadRequest)
		return
	}
	participant := domain.Participant{ID: userID, DisplayName: displayName}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.hub.Join(participant)
	defer h.hub.Leave(participant.ID)
	lines, cancel := h.hub.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	linesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(linesDone)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "chat", Payload: chatPayload{Kind: line.Kind, Text: line.Text}}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: h.joined()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "say", "say_team":
			var payload sayPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid say payload")
				continue
			}
			// Winners are announced through the hub; wrong answers get no reply.
			h.game.SubmitAnswer(r.Context(), participant, payload.Text)
		case "balance":
			send <- h.balance(r, participant.ID)
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-linesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) joined() joinedPayload {
	payload := joinedPayload{Participants: h.hub.Participants()}
	snap := h.game.Snapshot()
	if snap.State == domain.RoundAsked && !snap.Answered {
		payload.Round = &roundPayload{
			RoundID:    snap.Question.RoundID,
			Expression: snap.Question.Expression,
			Reward:     snap.Question.Reward,
			Deadline:   snap.Deadline,
		}
	}
	return payload
}

func (h *WSHandler) balance(r *http.Request, participantID string) outboundMessage[any] {
	if h.credits == nil {
		return errorMessage(domain.ErrRewardsUnavailable.Error())
	}
	credits, err := h.credits.Balance(r.Context(), participantID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return outboundMessage[any]{Type: "balance", Payload: balancePayload{Credits: 0}}
	}
	if err != nil {
		log.Printf("balance for %s failed: %v", participantID, err)
		return errorMessage("balance unavailable")
	}
	return outboundMessage[any]{Type: "balance", Payload: balancePayload{Credits: credits}}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
