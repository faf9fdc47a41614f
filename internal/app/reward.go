package app

import (
	"math"

	"math-quiz-service/internal/domain"
)

// difficultyNormalizer is the operator count that earns the full credit
// range in difficulty mode. Tunable; typical counts are 1 to 4.
const difficultyNormalizer = 4.0

// ComputeReward returns the credits for a question with operatorCount
// operators. The result is always within [MinCredits, MaxCredits] for
// operatorCount >= 1.
func ComputeReward(cfg domain.QuizConfig, operatorCount int, rng RNG) int {
	if cfg.RewardType == domain.RewardDifficultyScaled {
		span := float64(cfg.MaxCredits - cfg.MinCredits)
		reward := cfg.MinCredits + int(math.Floor(span*float64(operatorCount)/difficultyNormalizer))
		return min(reward, cfg.MaxCredits)
	}
	return cfg.MinCredits + rng.Intn(cfg.MaxCredits-cfg.MinCredits+1)
}
