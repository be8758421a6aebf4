package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/amishk599/jobmarket/internal/model"
)

// OpenAIProvider calls the chat completions endpoint with a single user
// message and no sampling parameters.
type OpenAIProvider struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIProvider creates a provider targeting an OpenAI-compatible API.
func NewOpenAIProvider(baseURL, apiKey, modelName string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

// Complete sends prompt as the only message and returns the first choice's
// content verbatim.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", model.ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
