package model

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/viswa-prakash/estatebot/internal/config"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/logger"
	"github.com/viswa-prakash/estatebot/internal/model/contract"
	anthropicProvider "github.com/viswa-prakash/estatebot/internal/model/providers/anthropic"
	geminiProvider "github.com/viswa-prakash/estatebot/internal/model/providers/gemini"
	openaiProvider "github.com/viswa-prakash/estatebot/internal/model/providers/openai"
)

// Provider is one chat-completion backend.
type Provider interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	Name() string
}

// Client binds a provider to the configured model name and sampling options.
type Client struct {
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewProvider constructs the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.ModelConfig, timeout time.Duration) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openaiProvider.New(cfg.APIKey, cfg.BaseURL, &http.Client{Timeout: timeout}), nil
	case "anthropic":
		return anthropicProvider.New(cfg.APIKey, cfg.BaseURL), nil
	case "gemini":
		p, err := geminiProvider.New(ctx, cfg.APIKey)
		if err != nil {
			return nil, estateErrors.Wrap(err, "init gemini provider")
		}
		return p, nil
	default:
		return nil, estateErrors.NotFound(fmt.Sprintf("model provider %q", cfg.Provider))
	}
}

func NewClient(provider Provider, cfg config.ModelConfig, timeout time.Duration) *Client {
	return &Client{
		provider:    provider,
		model:       cfg.Name,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}
}

func (c *Client) Model() string {
	return c.model
}

// ChatComplete sends one completion request and returns the provider's reply.
func (c *Client) ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	traceID := logger.GetTraceID(ctx)
	start := time.Now()
	slog.Debug("Sending completion request", "provider", c.provider.Name(), "model", c.model, "messages", len(messages), "tools", len(tools), "trace_id", traceID)

	resp, err := c.provider.Generate(ctx, contract.CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		slog.Error("Completion request failed", "provider", c.provider.Name(), "model", c.model, "error", err, "duration", time.Since(start), "trace_id", traceID)
		return nil, estateErrors.MapError(err)
	}
	if resp == nil {
		return nil, estateErrors.InvalidModelOutput("provider returned no response")
	}

	slog.Debug("Completion received", "provider", c.provider.Name(), "content_len", len(resp.Content), "tool_calls", len(resp.ToolCalls), "duration", time.Since(start), "trace_id", traceID)
	return resp, nil
}
