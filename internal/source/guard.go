package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/answer-engine/internal/resilience"
)

// Guard wraps a source call with rate limiting, a circuit breaker, and
// transient-error retries. Each adapter owns one guard.
type Guard struct {
	name    string
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewGuard builds a guard from the source defaults.
func NewGuard(name string, defaults DefaultConfig) *Guard {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger(name, "fetch")
	return &Guard{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(defaults.RatePerSecond), defaults.Burst),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: defaults.BreakerFailures,
			ResetTimeout:     time.Duration(defaults.BreakerResetSecs) * time.Second,
		}),
		retry: retry,
	}
}

// Do executes fn under the guard. Rate limiting waits for a token, the
// breaker rejects calls while open, and transient errors are retried.
func Do[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.limiter.Wait(ctx); err != nil {
		return zero, eris.Wrapf(err, "source: %s rate limit wait", g.name)
	}
	return resilience.ExecuteVal(g.breaker, func() (T, error) {
		return resilience.DoVal(ctx, g.retry, func(ctx context.Context) (T, error) {
			return fn(ctx)
		})
	})
}
