package domain

import "time"

// Operator is one of the four arithmetic operators a question can contain.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Valid reports whether the operator is one the evaluator understands.
func (o Operator) Valid() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Term is one operand of an expression and the operator that follows it.
// The last term of an expression has an empty Operator.
type Term struct {
	Operand  int      `json:"operand"`
	Operator Operator `json:"operator,omitempty"`
}

// Question is the content of a single round.
type Question struct {
	RoundID       string  `json:"roundId"`
	Terms         []Term  `json:"terms"`
	OperatorCount int     `json:"operatorCount"`
	Expression    string  `json:"expression"`
	Answer        float64 `json:"answer"`
	Reward        int     `json:"reward"`
}

// Operands returns the operands of the question in display order.
func (q Question) Operands() []int {
	out := make([]int, 0, len(q.Terms))
	for _, t := range q.Terms {
		out = append(out, t.Operand)
	}
	return out
}

// Operators returns the operators of the question in display order.
func (q Question) Operators() []Operator {
	out := make([]Operator, 0, q.OperatorCount)
	for _, t := range q.Terms {
		if t.Operator != "" {
			out = append(out, t.Operator)
		}
	}
	return out
}

// RoundState is the lifecycle position of the quiz round.
type RoundState int

const (
	// RoundIdle means no question has been asked yet.
	RoundIdle RoundState = iota
	// RoundAsked means a question is live and its deadline is pending.
	RoundAsked
	// RoundClosed means the last question was answered or timed out.
	RoundClosed
)

func (s RoundState) String() string {
	switch s {
	case RoundIdle:
		return "idle"
	case RoundAsked:
		return "asked"
	case RoundClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Participant identifies someone who can answer questions.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// EventKind names a round transition.
type EventKind string

const (
	EventRoundStarted  EventKind = "round_started"
	EventRoundAwarded  EventKind = "round_awarded"
	EventRoundTimedOut EventKind = "round_timed_out"
)

// Event describes a round transition. Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind     `json:"kind"`
	RoundID     string        `json:"roundId"`
	Expression  string        `json:"expression,omitempty"`
	Reward      int           `json:"reward,omitempty"`
	Participant Participant   `json:"participant,omitempty"`
	Answer      float64       `json:"answer,omitempty"`
	Cooldown    time.Duration `json:"cooldown,omitempty"`
	At          time.Time     `json:"at"`
}

// RoundSnapshot is a read-only view of the round for display.
type RoundSnapshot struct {
	State    RoundState `json:"state"`
	Question Question   `json:"question"`
	Answered bool       `json:"answered"`
	Deadline time.Time  `json:"deadline"`
}

// ChatLine is a formatted line sent to every participant.
type ChatLine struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text"`
}
