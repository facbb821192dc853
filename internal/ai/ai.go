// Package ai answers questions the offline knowledge base cannot, using an
// OpenAI chat model.
package ai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = openai.GPT4oMini
	DefaultMaxTokens   = 200
	DefaultTemperature = 0.5
	SystemPrompt       = "You are a helpful health assistant. Be empathetic but concise."
	UnavailableMessage = "⚠️ Sorry, AI service is not available right now."
)

// Asker returns a reply for prompt. It never fails; an unusable reply is
// replaced by UnavailableMessage.
type Asker interface {
	Ask(ctx context.Context, prompt, lang string) string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type OpenAIAsker struct {
	client *openai.Client
	cfg    Config
	logger *slog.Logger
}

func NewOpenAIAsker(cfg Config, logger *slog.Logger) *OpenAIAsker {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIAsker{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (a *OpenAIAsker) Ask(ctx context.Context, prompt, lang string) string {
	if a.cfg.APIKey == "" {
		a.logger.Warn("AI fallback requested but no API key is configured")
		return UnavailableMessage
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		a.logger.Error("AI request failed",
			slog.String("model", a.cfg.Model),
			slog.Any("err", err))
		return UnavailableMessage
	}

	if len(resp.Choices) == 0 {
		a.logger.Error("AI returned no choices", slog.String("model", a.cfg.Model))
		return UnavailableMessage
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
