package ai

import "context"

// LLMProvider sends a prompt to an LLM and returns the raw text response.
// Implementations return model.ErrNoChoices when the completion is empty.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
