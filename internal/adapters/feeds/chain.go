package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/betsim/internal/domain"
	"github.com/alejandrodnm/betsim/internal/ports"
)

// sourceStatus tracks one backing provider's health.
type sourceStatus struct {
	failures    int
	lastSuccess time.Time
}

// Chain implements ports.OddsProvider over an explicit, ordered list of
// backing providers. Each call tries them in sequence and returns the first
// success; per-source failures are counted so operators can see which feed
// is degrading.
type Chain struct {
	providers []ports.OddsProvider

	mu     sync.Mutex
	status map[string]*sourceStatus
}

// NewChain creates a chain over providers in priority order.
func NewChain(providers ...ports.OddsProvider) *Chain {
	status := make(map[string]*sourceStatus, len(providers))
	for _, p := range providers {
		status[p.Name()] = &sourceStatus{}
	}
	return &Chain{providers: providers, status: status}
}

func (c *Chain) Name() string { return "chain" }

// Games tries each provider in order.
func (c *Chain) Games(ctx context.Context, sport string) ([]domain.Game, error) {
	return try(c, ctx, func(p ports.OddsProvider) ([]domain.Game, error) {
		return p.Games(ctx, sport)
	})
}

// GetOdds tries each provider in order.
func (c *Chain) GetOdds(ctx context.Context, gameID string, market domain.MarketType) ([]domain.OddsQuote, error) {
	return try(c, ctx, func(p ports.OddsProvider) ([]domain.OddsQuote, error) {
		return p.GetOdds(ctx, gameID, market)
	})
}

// Status returns per-source failure counts and last success times, keyed by
// provider name.
func (c *Chain) Status() map[string]struct {
	Failures    int
	LastSuccess time.Time
} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct {
		Failures    int
		LastSuccess time.Time
	}, len(c.status))
	for name, s := range c.status {
		out[name] = struct {
			Failures    int
			LastSuccess time.Time
		}{s.failures, s.lastSuccess}
	}
	return out
}

func (c *Chain) markSuccess(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[name].lastSuccess = time.Now()
}

func (c *Chain) markFailure(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[name].failures++
}

// try runs fn against each provider in priority order, falling through on
// error.
func try[T any](c *Chain, ctx context.Context, fn func(ports.OddsProvider) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		out, err := fn(p)
		if err != nil {
			c.markFailure(p.Name())
			slog.Warn("odds source failed, falling back", "source", p.Name(), "err", err)
			lastErr = err
			continue
		}
		c.markSuccess(p.Name())
		return out, nil
	}
	return zero, fmt.Errorf("feeds.Chain: all %d sources failed: %w", len(c.providers), lastErr)
}
