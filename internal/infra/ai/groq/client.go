// Package groq implements the completion-provider port against Groq's
// OpenAI-compatible chat completion API.
package groq

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/fiscalia/fiscalia-api/internal/domain/analysis"
	"github.com/fiscalia/fiscalia-api/internal/infra/ai/prompt"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client wraps go-openai with a pinned model and Groq endpoint. Constructed
// once at process start and safe for concurrent shared use. A client built
// without an API key is disabled: its calls fail with ErrProvider without
// any network traffic, and callers take the fallback path.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, model string) *Client {
	c := &Client{model: model}
	if c.model == "" {
		c.model = prompt.Model
	}
	if apiKey == "" {
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg.BaseURL = baseURL
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

func (c *Client) Enabled() bool { return c.api != nil }

// Analyze sends the canonical text for a structured consultancy analysis and
// returns the raw completion text. No retries; a single failure propagates.
func (c *Client) Analyze(ctx context.Context, text, filename string) (string, error) {
	return c.complete(ctx, prompt.AnalysisSystem(), prompt.AnalysisUser(text, filename), prompt.AnalysisMaxTokens)
}

// Answer sends the history-aware advisory prompt for the Q&A path.
func (c *Client) Answer(ctx context.Context, question, historyJSON string) (string, error) {
	return c.complete(ctx, prompt.QuestionSystem(), prompt.QuestionUser(question, historyJSON), prompt.QuestionMaxTokens)
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("%w: no API key configured", analysis.ErrProvider)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: prompt.Temperature,
		TopP:        prompt.TopP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", analysis.ErrProvider, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", analysis.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
