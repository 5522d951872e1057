package runtime

import (
	"context"
	"fmt"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/conversation"
	"github.com/viswa-prakash/estatebot/internal/executor/runtimes"
	"github.com/viswa-prakash/estatebot/internal/model"
	"github.com/viswa-prakash/estatebot/internal/tool"

	_ "github.com/viswa-prakash/estatebot/internal/tool/builtin"
)

type RuntimeBuilder interface {
	WithContext(ctx context.Context) RuntimeBuilder
	WithConfig(cfg *config.Config) RuntimeBuilder
	WithProvider(provider model.Provider) RuntimeBuilder
	Build() (*Runtime, error)
}

type DefaultRuntimeBuilder struct {
	ctx      context.Context
	cfg      *config.Config
	provider model.Provider
}

func NewRuntimeBuilder() RuntimeBuilder {
	return &DefaultRuntimeBuilder{}
}

func (b *DefaultRuntimeBuilder) WithContext(ctx context.Context) RuntimeBuilder {
	b.ctx = ctx
	return b
}

func (b *DefaultRuntimeBuilder) WithConfig(cfg *config.Config) RuntimeBuilder {
	b.cfg = cfg
	return b
}

// WithProvider replaces the configured model provider.
func (b *DefaultRuntimeBuilder) WithProvider(provider model.Provider) RuntimeBuilder {
	b.provider = provider
	return b
}

// Build validates the config and assembles the agent. Missing credentials
// fail here, before any Run starts.
func (b *DefaultRuntimeBuilder) Build() (*Runtime, error) {
	if b.ctx == nil {
		b.ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	timeouts, err := b.cfg.Timeouts()
	if err != nil {
		return nil, err
	}

	registry, err := NewToolRegistry(b.cfg, timeouts)
	if err != nil {
		return nil, err
	}

	provider := b.provider
	if provider == nil {
		provider, err = model.NewProvider(b.ctx, b.cfg.Model, timeouts.ModelRequest)
		if err != nil {
			return nil, err
		}
	}
	client := model.NewClient(provider, b.cfg.Model, timeouts.ModelRequest)

	window := conversation.NewWindow(b.cfg.Agent.HistoryTokens, conversation.NewEstimator(b.cfg.Agent.Encoding))
	thinker := agent.NewThinker(client, registry.Definitions(), b.cfg.Prompts.System, window)
	actor := agent.NewActor(tool.NewRunner(registry))
	engine := agent.NewEngine(thinker, actor, agent.NewMarkerDetector(b.cfg.Agent.TerminalMarker), b.cfg.Agent.MaxMessages)

	return &Runtime{
		Ctx:      b.ctx,
		Config:   b.cfg,
		Timeouts: timeouts,
		Registry: registry,
		Engine:   engine,
	}, nil
}

// NewToolRegistry instantiates the built-in catalog from config.
func NewToolRegistry(cfg *config.Config, timeouts config.Timeouts) (*tool.Registry, error) {
	tools, err := tool.InstantiateBuiltins(BuiltinOptions(cfg, timeouts))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate built-in tools: %w", err)
	}

	registry := tool.NewRegistry()
	for _, t := range tools {
		registry.Register(t)
	}
	return registry, nil
}

func BuiltinOptions(cfg *config.Config, timeouts config.Timeouts) tool.BuiltinOptions {
	return tool.BuiltinOptions{
		SearchBaseURL:    cfg.Tools.Search.BaseURL,
		SearchAPIKey:     cfg.Tools.Search.APIKey,
		SearchEngine:     cfg.Tools.Search.Engine,
		SearchMaxResults: cfg.Tools.Search.MaxResults,
		SearchTimeout:    timeouts.Search,

		CurrencyBaseURL:           cfg.Tools.Currency.BaseURL,
		CurrencyAPIKey:            cfg.Tools.Currency.APIKey,
		CurrencyTimeout:           timeouts.Currency,
		CurrencyRequestsPerMinute: cfg.Tools.Currency.RequestsPerMinute,

		PythonCommand:        cfg.Tools.Python.Command,
		PythonSandboxDir:     cfg.Tools.Python.SandboxDir,
		PythonTimeout:        timeouts.Python,
		PythonMaxOutputBytes: cfg.Tools.Python.MaxOutputBytes,
	}
}

// PythonVersion reports which interpreter python_repl would start.
func PythonVersion(ctx context.Context, cfg *config.Config) (string, error) {
	rt, err := runtimes.NewPythonRuntime(cfg.Tools.Python.Command)
	if err != nil {
		return "", err
	}
	return rt.GetVersion(ctx)
}
