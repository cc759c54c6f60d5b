package udemy

import (
	"github.com/rs/zerolog"

	"udemy-affiliate/internal/config"
)

// NewFromConfig builds a client from the environment configuration.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	return New(cfg.UdemyClientID, cfg.UdemyClientSecret,
		WithBaseURL(cfg.UdemyBaseURL),
		WithTimeout(cfg.UdemyTimeout),
		WithRetry(cfg.Retry()),
		WithRateLimit(cfg.UdemyRPS),
		WithLogger(log),
	)
}
