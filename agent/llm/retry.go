package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

// retryPolicy retries transient failures with exponential backoff
// (base, 2*base, 4*base, ...) and bounds every attempt by timeout.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	timeout   time.Duration
}

func (p retryPolicy) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.attempts
	if attempts < 1 {
		attempts = 1
	}
	base := p.baseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isTransient(err) {
			return err
		}
		log.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("completion gateway transient failure")
		return retry.RetryableError(err)
	})
}

// attempt derives the per-attempt context.
func (p retryPolicy) attempt(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// classify maps an attempt deadline to ErrGatewayTimeout while the caller's
// context is still alive.
func classify(parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if parent.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(contractx.ErrGatewayTimeout, err)
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, contractx.ErrGatewayTimeout) {
		return true
	}
	if errors.Is(err, contractx.ErrEmptyCompletion) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "connection reset")
}
