package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int           // Maximum number of attempts (default: 3)
	InitialDelay    time.Duration // Delay before first retry (default: 100ms)
	MaxDelay        time.Duration // Maximum delay between retries (default: 5s)
	Multiplier      float64       // Exponential backoff multiplier (default: 2.0)
	RetryableErrors []string      // Error substrings considered retryable
}

// DefaultConfig returns default retry configuration.
// The "code: NNN" entries are ClickHouse server errors that are transient
// (connection lost, memory pressure, timeouts), used by the history mirror.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		RetryableErrors: []string{
			"connection refused",
			"connection reset",
			"connection lost",
			"timeout",
			"network is unreachable",
			"no such host",
			"temporary failure",
			"code: 999",
			"code: 241",
			"code: 159",
			"code: 160",
			"code: 210",
		},
	}
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error, cfg Config) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Never retry on malformed queries
	if strings.Contains(errStr, "code: 62") || strings.Contains(errStr, "syntax error") {
		return false
	}

	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(errStr, strings.ToLower(pattern)) {
			return true
		}
	}

	return false
}

// Do executes a function with retry and exponential backoff
func Do(ctx context.Context, cfg Config, operation func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		err := operation()
		if err == nil {
			if attempt > 1 {
				log.Info().
					Int("attempt", attempt).
					Msg("Operation succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if !IsRetryableError(err, cfg) {
			log.Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("Error is not retryable, aborting")
			return err
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("retry_delay", delay).
			Msg("Operation failed, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
