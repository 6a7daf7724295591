package menu

import (
	"context"
	"fmt"
	"time"

	"ai-dinner-planner/internal/llm"
	"ai-dinner-planner/internal/shared"
)

// Generator produces validated weekly menus through a text model.
type Generator struct {
	textGen llm.TextGenerator
}

// NewGenerator creates a new Generator instance.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate sends the prompt to the model and parses the response into a
// validated 7-item menu. The returned meta carries token usage and latency
// even when the call or the parse fails, so callers can record the attempt.
func (g *Generator) Generate(ctx context.Context, prompt string) ([]MenuItem, shared.GenerationMeta, error) {
	start := time.Now()

	resp, err := g.textGen.GenerateContent(ctx, prompt)
	meta := shared.GenerationMeta{Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate menu: %w", err)
	}

	items, err := ParseMenu(resp.Content)
	if err != nil {
		return nil, meta, err
	}

	return items, meta, nil
}
