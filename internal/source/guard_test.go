package source

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-engine/internal/resilience"
)

func quickDefaults() DefaultConfig {
	return DefaultConfig{
		Weight:           0.5,
		RatePerSecond:    1000,
		Burst:            1000,
		BreakerFailures:  2,
		BreakerResetSecs: 60,
	}
}

func TestGuard_PassesThroughSuccess(t *testing.T) {
	g := NewGuard("test", quickDefaults())

	got, err := Do(context.Background(), g, func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestGuard_RetriesTransientErrors(t *testing.T) {
	g := NewGuard("test", quickDefaults())
	g.retry.InitialBackoff = time.Millisecond
	g.retry.MaxBackoff = time.Millisecond

	calls := 0
	got, err := Do(context.Background(), g, func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", resilience.NewTransientError(eris.New("503"), 503)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestGuard_BreakerOpensAfterFailures(t *testing.T) {
	g := NewGuard("test", quickDefaults())

	boom := eris.New("boom")
	for i := 0; i < 2; i++ {
		_, err := Do(context.Background(), g, func(ctx context.Context) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)
	}

	_, err := Do(context.Background(), g, func(ctx context.Context) (string, error) {
		return "should not run", nil
	})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestGuard_CancelledContext(t *testing.T) {
	defaults := quickDefaults()
	defaults.RatePerSecond = 0.001
	defaults.Burst = 0 // no tokens available, Wait must block until cancel
	g := NewGuard("test", defaults)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Do(ctx, g, func(ctx context.Context) (string, error) {
		return "unreachable", nil
	})
	assert.Error(t, err)
}
