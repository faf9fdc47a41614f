package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"math-quiz-service/internal/domain"
)

// Reward ledger backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Rewards struct {
		// Backend is one of none, memory, redis, postgres. Empty picks
		// postgres, then redis, then memory, based on what is configured.
		Backend string `yaml:"backend"`
		Timeout string `yaml:"timeout"`
	} `yaml:"rewards"`
	Locale string            `yaml:"locale"`
	Quiz   domain.QuizConfig `yaml:"quiz"`
}

// Default returns a config with the stock quiz settings.
func Default() Config {
	cfg := Config{Locale: "en"}
	cfg.Quiz = domain.DefaultQuizConfig()
	return cfg
}

// Load reads YAML config from path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Quiz.AnswerTimeoutSeconds > cfg.Quiz.QuestionIntervalSeconds {
		log.Printf("answer_timeout_seconds %d exceeds question_interval_seconds %d; next question follows a timeout immediately",
			cfg.Quiz.AnswerTimeoutSeconds, cfg.Quiz.QuestionIntervalSeconds)
	}
	return cfg, nil
}

// Validate checks the quiz settings and the reward backend.
func (c Config) Validate() error {
	if err := c.Quiz.Validate(); err != nil {
		return err
	}
	switch c.Rewards.Backend {
	case "", BackendNone, BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: unknown rewards backend %q", domain.ErrInvalidConfig, c.Rewards.Backend)
	}
	return nil
}

// RewardBackend resolves the ledger backend to use.
func (c Config) RewardBackend() string {
	if c.Rewards.Backend != "" {
		return c.Rewards.Backend
	}
	switch {
	case c.Postgres.URL != "":
		return BackendPostgres
	case c.Redis.Addr != "":
		return BackendRedis
	default:
		return BackendMemory
	}
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
