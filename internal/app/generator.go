package app

import (
	"math"
	"strconv"
	"strings"

	"math-quiz-service/internal/domain"
)

// RNG is the random source used for question content.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Generate builds a random expression from the weighted settings in cfg.
// The random draws happen in this order: operator count, then for each
// position the operand followed by the operator that comes after it.
// The returned question has no reward and no round id.
func Generate(cfg domain.QuizConfig, rng RNG) domain.Question {
	count := cfg.OperatorQuantityChances.PickOr(rng.Intn(domain.DrawRange), 1)
	if count < 1 {
		count = 1
	}

	span := cfg.MaxNumber - cfg.MinNumber + 1
	terms := make([]domain.Term, count+1)
	for i := range terms {
		terms[i].Operand = cfg.MinNumber + rng.Intn(span)
		if i < count {
			terms[i].Operator = cfg.OperatorChances.PickOr(rng.Intn(domain.DrawRange), domain.OpAdd)
		}
	}

	return domain.Question{
		Terms:         terms,
		OperatorCount: count,
		Expression:    FormatExpression(terms) + " = ?",
		Answer:        RoundAnswer(Evaluate(terms)),
	}
}

// Evaluate folds the terms strictly left to right. There is no operator
// precedence: "2 + 3 * 4" is (2 + 3) * 4.
// Dividing by a zero operand leaves the running result unchanged.
func Evaluate(terms []domain.Term) float64 {
	if len(terms) == 0 {
		return 0
	}
	result := float64(terms[0].Operand)
	for i := 1; i < len(terms); i++ {
		result = apply(result, float64(terms[i].Operand), terms[i-1].Operator)
	}
	return result
}

func apply(left, right float64, op domain.Operator) float64 {
	switch op {
	case domain.OpAdd:
		return left + right
	case domain.OpSub:
		return left - right
	case domain.OpMul:
		return left * right
	case domain.OpDiv:
		if right == 0 {
			return left
		}
		return left / right
	default:
		return left
	}
}

// RoundAnswer rounds to two decimals, halves away from zero. The rule is
// applied to the float64 product v*100: 1.005*100 is 100.49999999999999 and
// becomes 1.00, while 2.675*100 is exactly 267.5 and becomes 2.68.
func RoundAnswer(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatExpression renders terms as "a op b op c".
func FormatExpression(terms []domain.Term) string {
	var b strings.Builder
	for i, t := range terms {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(string(terms[i-1].Operator))
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(t.Operand))
	}
	return b.String()
}
