package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Model   ModelConfig   `koanf:"model" yaml:"model"`
	Agent   AgentConfig   `koanf:"agent" yaml:"agent"`
	Prompts PromptsConfig `koanf:"prompts" yaml:"prompts"`
	Tools   ToolsConfig   `koanf:"tools" yaml:"tools"`
}

type ServerConfig struct {
	Port            int    `koanf:"port" yaml:"port"`
	LogLevel        string `koanf:"log_level" yaml:"log_level"`
	ReadTimeout     string `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ModelConfig selects the chat-completion endpoint used by the reasoning step.
type ModelConfig struct {
	Provider       string  `koanf:"provider" yaml:"provider"`
	Name           string  `koanf:"name" yaml:"name"`
	BaseURL        string  `koanf:"base_url" yaml:"base_url"`
	APIKey         string  `koanf:"api_key" yaml:"api_key"`
	Temperature    float64 `koanf:"temperature" yaml:"temperature"`
	MaxTokens      int     `koanf:"max_tokens" yaml:"max_tokens"`
	RequestTimeout string  `koanf:"request_timeout" yaml:"request_timeout"`
}

type AgentConfig struct {
	MaxMessages    int    `koanf:"max_messages" yaml:"max_messages"`
	HistoryTokens  int    `koanf:"history_tokens" yaml:"history_tokens"`
	Encoding       string `koanf:"encoding" yaml:"encoding"`
	TerminalMarker string `koanf:"terminal_marker" yaml:"terminal_marker"`
}

type PromptsConfig struct {
	System string `koanf:"system" yaml:"system"`
}

type ToolsConfig struct {
	Search   SearchToolConfig   `koanf:"search" yaml:"search"`
	Currency CurrencyToolConfig `koanf:"currency" yaml:"currency"`
	Python   PythonToolConfig   `koanf:"python" yaml:"python"`
}

type SearchToolConfig struct {
	BaseURL    string `koanf:"base_url" yaml:"base_url"`
	APIKey     string `koanf:"api_key" yaml:"api_key"`
	Engine     string `koanf:"engine" yaml:"engine"`
	MaxResults int    `koanf:"max_results" yaml:"max_results"`
	Timeout    string `koanf:"timeout" yaml:"timeout"`
}

type CurrencyToolConfig struct {
	BaseURL           string `koanf:"base_url" yaml:"base_url"`
	APIKey            string `koanf:"api_key" yaml:"api_key"`
	Timeout           string `koanf:"timeout" yaml:"timeout"`
	RequestsPerMinute int    `koanf:"requests_per_minute" yaml:"requests_per_minute"`
}

type PythonToolConfig struct {
	Command        string `koanf:"command" yaml:"command"`
	SandboxDir     string `koanf:"sandbox_dir" yaml:"sandbox_dir"`
	Timeout        string `koanf:"timeout" yaml:"timeout"`
	MaxOutputBytes int    `koanf:"max_output_bytes" yaml:"max_output_bytes"`
}

const (
	DefaultServerPort              = 8501
	DefaultServerLogLevel          = "info"
	DefaultServerReadTimeout       = "10s"
	DefaultServerWriteTimeout      = "180s"
	DefaultServerShutdownTimeout   = "5s"
	DefaultModelProvider           = "openai"
	DefaultModelName               = "gpt-4.1"
	DefaultModelTemperature        = 0.7
	DefaultModelMaxTokens          = 1024
	DefaultModelRequestTimeout     = "120s"
	DefaultOpenAIBaseURL           = "https://api.openai.com/v1"
	DefaultAgentMaxMessages        = 20
	DefaultAgentHistoryTokens      = 12000
	DefaultAgentEncoding           = "cl100k_base"
	DefaultAgentTerminalMarker     = "final answer:"
	DefaultSearchToolBaseURL       = "https://serpapi.com/search"
	DefaultSearchToolEngine        = "google"
	DefaultSearchToolMaxResults    = 5
	DefaultSearchToolTimeout       = "15s"
	DefaultCurrencyToolBaseURL     = "https://www.alphavantage.co/query"
	DefaultCurrencyToolTimeout     = "10s"
	DefaultCurrencyToolRPM         = 5
	DefaultPythonToolCommand       = "python3 -I"
	DefaultPythonToolTimeout       = "30s"
	DefaultPythonToolMaxOutputSize = 16 * 1024
)

const DefaultSystemPrompt = `You are a helpful AI agent for real estate and mortgage planning.

You can use these tools:
- web_search: to find properties, prices, market trends and news.
- currency_exchange: for the exchange rate between two currencies.
- python_repl: to run Python code for custom calculations or comparisons.
- mortgage_calculator: to compute the monthly payment of a fixed-rate loan.

For each request:
- Break down the user's query into clear subtasks, and think out loud about each step.
- For every subtask, select and use the appropriate tool.
- If a tool fails to return results, try another approach or let the user know.

When you have completed all needed tool use, always give your full, final answer in a single message
beginning with "Final answer:". This answer should:
- Clearly summarize your findings, calculations, or recommendations.
- Include any essential numbers (e.g., prices, rates, payment estimate, etc).
- Give a next-step suggestion or brief, actionable advice if appropriate.

IMPORTANT: your very last message must always start with "Final answer:" and be the only concluding message to the user.`

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                        DefaultServerPort,
		"server.log_level":                   DefaultServerLogLevel,
		"server.read_timeout":                DefaultServerReadTimeout,
		"server.write_timeout":               DefaultServerWriteTimeout,
		"server.shutdown_timeout":            DefaultServerShutdownTimeout,
		"model.provider":                     DefaultModelProvider,
		"model.name":                         DefaultModelName,
		"model.temperature":                  DefaultModelTemperature,
		"model.max_tokens":                   DefaultModelMaxTokens,
		"model.request_timeout":              DefaultModelRequestTimeout,
		"agent.max_messages":                 DefaultAgentMaxMessages,
		"agent.history_tokens":               DefaultAgentHistoryTokens,
		"agent.encoding":                     DefaultAgentEncoding,
		"agent.terminal_marker":              DefaultAgentTerminalMarker,
		"prompts.system":                     DefaultSystemPrompt,
		"tools.search.base_url":              DefaultSearchToolBaseURL,
		"tools.search.engine":                DefaultSearchToolEngine,
		"tools.search.max_results":           DefaultSearchToolMaxResults,
		"tools.search.timeout":               DefaultSearchToolTimeout,
		"tools.currency.base_url":            DefaultCurrencyToolBaseURL,
		"tools.currency.timeout":             DefaultCurrencyToolTimeout,
		"tools.currency.requests_per_minute": DefaultCurrencyToolRPM,
		"tools.python.command":               DefaultPythonToolCommand,
		"tools.python.sandbox_dir":           DefaultPythonSandboxDir(),
		"tools.python.timeout":               DefaultPythonToolTimeout,
		"tools.python.max_output_bytes":      DefaultPythonToolMaxOutputSize,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".estatebot", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("ESTATEBOT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ESTATEBOT_")), "__", ".", -1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Model.Provider = strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = DefaultModelProvider
	}

	if strings.TrimSpace(cfg.Tools.Python.SandboxDir) == "" {
		cfg.Tools.Python.SandboxDir = DefaultPythonSandboxDir()
	}
	sandboxDir, err := pathutil.Expand(cfg.Tools.Python.SandboxDir)
	if err != nil {
		return nil, err
	}
	cfg.Tools.Python.SandboxDir = sandboxDir

	injectCredentials(&cfg)

	return &cfg, nil
}

// DefaultPythonSandboxDir is where python_repl creates its per-call directories.
func DefaultPythonSandboxDir() string {
	return filepath.Join(os.TempDir(), "estatebot", "sandboxes")
}

// injectCredentials fills empty keys from the conventional provider variables.
func injectCredentials(cfg *Config) {
	if cfg.Model.APIKey == "" {
		if name := ProviderKeyEnv(cfg.Model.Provider); name != "" {
			cfg.Model.APIKey = os.Getenv(name)
		}
	}
	if cfg.Tools.Search.APIKey == "" {
		cfg.Tools.Search.APIKey = os.Getenv("SERPAPI_API_KEY")
	}
	if cfg.Tools.Currency.APIKey == "" {
		cfg.Tools.Currency.APIKey = os.Getenv("ALPHA_VANTAGE_API_KEY")
	}
}

// ProviderKeyEnv returns the conventional API key variable for a provider.
func ProviderKeyEnv(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// Validate reports every missing credential at once. A run cannot start
// without all three.
func (c *Config) Validate() error {
	if c == nil {
		return estateErrors.Internal("config is not initialized")
	}

	switch c.Model.Provider {
	case "openai", "anthropic", "gemini":
	default:
		return estateErrors.InvalidInput(fmt.Sprintf("unsupported model provider %q", c.Model.Provider))
	}

	var missing []string
	if strings.TrimSpace(c.Model.APIKey) == "" {
		missing = append(missing, "model.api_key ("+ProviderKeyEnv(c.Model.Provider)+")")
	}
	if strings.TrimSpace(c.Tools.Search.APIKey) == "" {
		missing = append(missing, "tools.search.api_key (SERPAPI_API_KEY)")
	}
	if strings.TrimSpace(c.Tools.Currency.APIKey) == "" {
		missing = append(missing, "tools.currency.api_key (ALPHA_VANTAGE_API_KEY)")
	}
	if len(missing) > 0 {
		return estateErrors.MissingCredential(strings.Join(missing, ", "))
	}

	if c.Agent.MaxMessages <= 0 {
		return estateErrors.InvalidInput("agent.max_messages must be positive")
	}
	return nil
}
