package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardConfig tunes the rate limiter and circuit breaker around a provider.
type GuardConfig struct {
	// RequestsPerMinute caps outgoing requests; 0 disables limiting.
	RequestsPerMinute int
	// MaxFailures consecutive failures open the breaker; 0 means 5.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// GuardedProvider rate-limits a provider and stops calling it while it keeps
// failing.
type GuardedProvider struct {
	inner   Provider
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedProvider wraps inner with a limiter and a circuit breaker.
func NewGuardedProvider(inner Provider, cfg GuardConfig, logger *log.Logger) *GuardedProvider {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	l := logger.With("component", "breaker", "provider", inner.Name())
	maxFailures := cfg.MaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &GuardedProvider{inner: inner, limiter: limiter, breaker: breaker}
}

// Synthesize waits for a rate-limit token, then calls the inner provider
// through the breaker.
func (g *GuardedProvider) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	res, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.Synthesize(ctx, text, voiceID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.inner.Name(), err)
	}
	return res.([]byte), nil
}

// Name returns the inner provider name
func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

// IsAvailable reports an open breaker as unavailable.
func (g *GuardedProvider) IsAvailable() error {
	if g.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", g.inner.Name(), gobreaker.ErrOpenState)
	}
	return g.inner.IsAvailable()
}

// State returns the breaker state.
func (g *GuardedProvider) State() gobreaker.State {
	return g.breaker.State()
}
