package retry

import (
	"context"
	"errors"
	"time"

	"multibank/pkg/apperror"

	"github.com/rs/zerolog"
)

// Config bounds the retry decorator: Attempts total tries, BaseDelay doubled
// after each failure.
type Config struct {
	Attempts  int
	BaseDelay time.Duration
}

// Default matches the transfer engine's persistence policy.
var Default = Config{Attempts: 3, BaseDelay: 100 * time.Millisecond}

// Do runs op, retrying transient failures with exponential backoff and
// surfacing the final error after exhaustion. Structured application errors
// (validation, business, fatal configuration) are permanent and returned
// immediately; so is context cancellation.
func Do(ctx context.Context, cfg Config, log zerolog.Logger, op func(context.Context) error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	delay := cfg.BaseDelay

	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == cfg.Attempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", delay).
			Msg("operation failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
