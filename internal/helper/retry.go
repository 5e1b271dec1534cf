package helper

import (
	"context"
	"errors"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"pdf-rag/internal/config"
)

// Retry runs fn under the bounded backoff policy in cfg. Context errors are
// never retried.
func Retry(ctx context.Context, cfg config.RetryConfig, op string, fn func() error) error {
	return retry.Do(
		fn,
		append(RetryOptions(cfg),
			retry.Context(ctx),
			retry.RetryIf(func(err error) bool {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}),
			retry.OnRetry(func(n uint, err error) {
				log.Warn().Err(err).Str("op", op).Uint("attempt", n+1).Msg("Retrying after transient error")
			}),
		)...,
	)
}

func RetryOptions(cfg config.RetryConfig) []retry.Option {
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Attempts(attempts),
		retry.Delay(cfg.Delay),
		retry.MaxDelay(cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}
