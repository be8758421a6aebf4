package ai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amishk599/jobmarket/internal/model"
)

// FallbackResponse is returned when the model produces no choices.
const FallbackResponse = "Sorry, I couldn't generate a response to your prompt."

// MarketAnalyzer turns a prompt into analysis text using an LLM.
type MarketAnalyzer struct {
	provider LLMProvider
	logger   *slog.Logger
}

// NewMarketAnalyzer creates an analyzer backed by provider.
func NewMarketAnalyzer(provider LLMProvider, logger *slog.Logger) *MarketAnalyzer {
	return &MarketAnalyzer{
		provider: provider,
		logger:   logger,
	}
}

// Analyze submits prompt and always returns a populated Analysis. A provider
// failure is logged and its message becomes the analysis text; Err is set so
// callers can tell the two apart.
func (a *MarketAnalyzer) Analyze(ctx context.Context, prompt string) model.Analysis {
	result := model.Analysis{Prompt: prompt}

	text, err := a.provider.Complete(ctx, prompt)
	switch {
	case err == nil:
		result.Text = text
	case errors.Is(err, model.ErrNoChoices):
		a.logger.Warn("model returned no choices, using fallback")
		result.Text = FallbackResponse
		result.Fallback = true
	default:
		a.logger.Error("analysis failed", "error", err)
		result.Text = err.Error()
		result.Err = err
	}
	return result
}

// GenerateResponse returns the analysis text for prompt, never an error.
func (a *MarketAnalyzer) GenerateResponse(ctx context.Context, prompt string) string {
	return a.Analyze(ctx, prompt).Text
}
