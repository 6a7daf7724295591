package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledTextGenerator wraps a TextGenerator with a client-side token
// bucket so a burst of requests cannot exhaust the provider quota.
type ThrottledTextGenerator struct {
	realGen TextGenerator
	limiter *rate.Limiter
}

// NewThrottledTextGenerator creates a ThrottledTextGenerator allowing at
// most maxPerMinute upstream calls on average, with a burst of the same size.
func NewThrottledTextGenerator(realGen TextGenerator, maxPerMinute int) *ThrottledTextGenerator {
	return &ThrottledTextGenerator{
		realGen: realGen,
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
	}
}

// GenerateContent waits for bucket capacity, then calls the real generator.
// The wait is bounded by ctx.
func (t *ThrottledTextGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to acquire upstream slot: %w", err)
	}
	return t.realGen.GenerateContent(ctx, prompt)
}
