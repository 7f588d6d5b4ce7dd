package embeddings

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps an Embedder with a rate limit sized to the provider's
// quota, so concurrent ingestion and enrichment cannot exceed it.
type Throttled struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewThrottled creates a rate-limited embedder.
func NewThrottled(inner Embedder, requestsPerSecond float64, burst int) *Throttled {
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for rate limit clearance, then delegates.
func (t *Throttled) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.Embed(ctx, texts)
}

// Dimensions returns the wrapped embedder's vector dimension.
func (t *Throttled) Dimensions() int { return t.inner.Dimensions() }

// Name returns the wrapped embedder's model identifier.
func (t *Throttled) Name() string { return t.inner.Name() }
