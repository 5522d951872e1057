package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"

	"github.com/spf13/cobra"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "SERPAPI_API_KEY", "ALPHA_VANTAGE_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearCredentialEnv(t)

	// We pass nil for cmd to skip flags
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Expected default port %d, got %d", DefaultServerPort, cfg.Server.Port)
	}
	if cfg.Model.Provider != DefaultModelProvider {
		t.Errorf("Expected default provider %s, got %s", DefaultModelProvider, cfg.Model.Provider)
	}
	if cfg.Model.Name != DefaultModelName {
		t.Errorf("Expected default model %s, got %s", DefaultModelName, cfg.Model.Name)
	}
	if cfg.Agent.MaxMessages != DefaultAgentMaxMessages {
		t.Errorf("Expected default max messages %d, got %d", DefaultAgentMaxMessages, cfg.Agent.MaxMessages)
	}
	if cfg.Agent.TerminalMarker != DefaultAgentTerminalMarker {
		t.Errorf("Expected default marker %q, got %q", DefaultAgentTerminalMarker, cfg.Agent.TerminalMarker)
	}
	if cfg.Agent.HistoryTokens != DefaultAgentHistoryTokens {
		t.Errorf("Expected default history tokens %d, got %d", DefaultAgentHistoryTokens, cfg.Agent.HistoryTokens)
	}
	if cfg.Prompts.System != DefaultSystemPrompt {
		t.Errorf("Expected default system prompt")
	}
	if cfg.Tools.Search.BaseURL != DefaultSearchToolBaseURL {
		t.Errorf("Expected default search base url %s, got %s", DefaultSearchToolBaseURL, cfg.Tools.Search.BaseURL)
	}
	if cfg.Tools.Currency.RequestsPerMinute != DefaultCurrencyToolRPM {
		t.Errorf("Expected default currency rpm %d, got %d", DefaultCurrencyToolRPM, cfg.Tools.Currency.RequestsPerMinute)
	}
	if cfg.Tools.Python.Command != DefaultPythonToolCommand {
		t.Errorf("Expected default python command %q, got %q", DefaultPythonToolCommand, cfg.Tools.Python.Command)
	}
	if cfg.Tools.Python.SandboxDir != DefaultPythonSandboxDir() {
		t.Errorf("Expected default sandbox dir %s, got %s", DefaultPythonSandboxDir(), cfg.Tools.Python.SandboxDir)
	}
	if cfg.Model.APIKey != "" {
		t.Errorf("Expected empty model api key, got %q", cfg.Model.APIKey)
	}
}

func TestLoadWithConfigFlag(t *testing.T) {
	clearCredentialEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte(`
server:
  port: 9090
model:
  provider: Anthropic
  name: claude-sonnet
agent:
  max_messages: 12
tools:
  python:
    sandbox_dir: ~/.estatebot/sandboxes
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file path")
	if err := cmd.Flags().Set("config", configPath); err != nil {
		t.Fatalf("failed to set config flag: %v", err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("failed to load config with --config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Model.Provider != "anthropic" {
		t.Fatalf("expected provider anthropic, got %s", cfg.Model.Provider)
	}
	if cfg.Agent.MaxMessages != 12 {
		t.Fatalf("expected max messages 12, got %d", cfg.Agent.MaxMessages)
	}
	home, _ := os.UserHomeDir()
	wantSandbox := filepath.Join(home, ".estatebot", "sandboxes")
	if cfg.Tools.Python.SandboxDir != wantSandbox {
		t.Fatalf("sandbox dir = %q, want %q", cfg.Tools.Python.SandboxDir, wantSandbox)
	}
	if cfg.Tools.Search.Engine != DefaultSearchToolEngine {
		t.Fatalf("expected untouched default engine, got %s", cfg.Tools.Search.Engine)
	}
}

func TestLoadWithMissingConfigFlagReturnsError(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file path")
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("failed to set config flag: %v", err)
	}

	if _, err := Load(cmd); err == nil {
		t.Fatal("expected error when --config points to missing file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("ESTATEBOT_AGENT__MAX_MESSAGES", "7")
	t.Setenv("ESTATEBOT_MODEL__PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Agent.MaxMessages != 7 {
		t.Fatalf("expected max messages 7, got %d", cfg.Agent.MaxMessages)
	}
	if cfg.Model.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Model.Provider)
	}
	if cfg.Model.APIKey != "gm-key" {
		t.Fatalf("expected api key from GEMINI_API_KEY, got %q", cfg.Model.APIKey)
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("ESTATEBOT_AGENT__MAX_MESSAGES", "7")

	cmd := &cobra.Command{}
	cmd.Flags().Int("agent.max_messages", DefaultAgentMaxMessages, "cap")
	if err := cmd.Flags().Set("agent.max_messages", "30"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Agent.MaxMessages != 30 {
		t.Fatalf("expected flag to win with 30, got %d", cfg.Agent.MaxMessages)
	}
}

func TestValidate_ReportsAllMissingCredentials(t *testing.T) {
	cfg := &Config{Model: ModelConfig{Provider: "openai"}, Agent: AgentConfig{MaxMessages: 20}}

	err := cfg.Validate()
	if !errors.Is(err, estateErrors.ErrMissingCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
	for _, want := range []string{"OPENAI_API_KEY", "SERPAPI_API_KEY", "ALPHA_VANTAGE_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in %q", want, err.Error())
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Model: ModelConfig{Provider: "openai", APIKey: "sk"},
		Agent: AgentConfig{MaxMessages: 20},
		Tools: ToolsConfig{
			Search:   SearchToolConfig{APIKey: "serp"},
			Currency: CurrencyToolConfig{APIKey: "av"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	badProvider := valid
	badProvider.Model.Provider = "ollama"
	if err := badProvider.Validate(); !errors.Is(err, estateErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for provider, got %v", err)
	}

	badCap := valid
	badCap.Agent.MaxMessages = 0
	if err := badCap.Validate(); !errors.Is(err, estateErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for cap, got %v", err)
	}

	var nilCfg *Config
	if err := nilCfg.Validate(); !errors.Is(err, estateErrors.ErrInternal) {
		t.Fatalf("expected internal error for nil config, got %v", err)
	}
}

func TestTimeouts(t *testing.T) {
	cfg := &Config{}
	cfg.Model.RequestTimeout = "45s"

	got, err := cfg.Timeouts()
	if err != nil {
		t.Fatalf("timeouts: %v", err)
	}
	if got.ModelRequest != 45*time.Second {
		t.Fatalf("model timeout = %s, want 45s", got.ModelRequest)
	}
	if got.ServerWrite != 180*time.Second {
		t.Fatalf("server write timeout = %s, want default 180s", got.ServerWrite)
	}

	cfg.Tools.Python.Timeout = "-1s"
	if _, err := cfg.Timeouts(); err == nil || !strings.Contains(err.Error(), "tools.python.timeout") {
		t.Fatalf("expected python timeout error, got %v", err)
	}
}

func TestDurationOrDefault(t *testing.T) {
	if d, err := DurationOrDefault(" ", "2s"); err != nil || d != 2*time.Second {
		t.Fatalf("expected fallback 2s, got %s %v", d, err)
	}
	if _, err := DurationOrDefault("", ""); err == nil {
		t.Fatal("expected error for empty duration")
	}
	if _, err := DurationOrDefault("later", "1s"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestProviderKeyEnv(t *testing.T) {
	cases := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"Anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
		"other":     "",
	}
	for provider, want := range cases {
		if got := ProviderKeyEnv(provider); got != want {
			t.Errorf("ProviderKeyEnv(%q) = %q, want %q", provider, got, want)
		}
	}
}
