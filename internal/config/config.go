package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey   string
	SaveDir        string
	Port           int
	RoundsPerMatch int
	Policy         engine.Policy
	Workers        int
	Debug          bool
}

// LoadConfig loads the configuration from environment variables. A .env file in
// the working directory is read first when present; real environment variables win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		SaveDir:        os.Getenv("ROYALE_SAVE_DIR"),
		Port:           3000,
		RoundsPerMatch: engine.DefaultRoundsPerMatch,
		Workers:        1,
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = models.DefaultSaveDir
	}

	var err error
	if cfg.Port, err = intEnv("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.RoundsPerMatch, err = intEnv("ROYALE_ROUNDS", cfg.RoundsPerMatch); err != nil {
		return nil, err
	}
	if cfg.Workers, err = intEnv("ROYALE_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.Policy.Scoring, err = engine.ParseScoring(os.Getenv("ROYALE_SCORING")); err != nil {
		return nil, err
	}
	if cfg.Policy.Ties, err = engine.ParseTiePolicy(os.Getenv("ROYALE_TIES")); err != nil {
		return nil, err
	}
	if v := os.Getenv("ROYALE_DEBUG"); v != "" {
		if cfg.Debug, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("ROYALE_DEBUG: %w", err)
		}
	}
	return cfg, nil
}

// RequireGemini reports an error when no Gemini API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}

// EngineOptions converts the tournament settings into engine options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithRounds(c.RoundsPerMatch),
		engine.WithPolicy(c.Policy),
		engine.WithWorkers(c.Workers),
	}
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
