package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/viswa-prakash/estatebot/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, configInitCmd.RunE(cmd, nil))

	configPath := filepath.Join(tmpDir, ".estatebot", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Initialized config")

	var parsed config.Config
	require.NoError(t, yaml.Unmarshal(content, &parsed))
	assert.Equal(t, config.DefaultServerPort, parsed.Server.Port)
	assert.Equal(t, config.DefaultAgentMaxMessages, parsed.Agent.MaxMessages)
	assert.Equal(t, config.DefaultAgentTerminalMarker, parsed.Agent.TerminalMarker)

	out.Reset()
	require.NoError(t, configInitCmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "already exists")
}

func TestConfigViewCmd_MasksSecrets(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-secret-123456")
	t.Setenv("SERPAPI_API_KEY", "serp-abcdef")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")

	prev := cfg
	cfg = nil
	defer func() { cfg = prev }()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, configViewCmd.RunE(cmd, nil))

	view := out.String()
	assert.NotContains(t, view, "sk-secret-123456")
	assert.NotContains(t, view, "serp-abcdef")
	assert.Contains(t, view, "sk************56")
	assert.Contains(t, view, "max_messages: 20")
}

func TestRedactConfigSecrets(t *testing.T) {
	original := &config.Config{
		Model: config.ModelConfig{APIKey: "sk-secret-123456"},
		Tools: config.ToolsConfig{
			Search:   config.SearchToolConfig{APIKey: "abc"},
			Currency: config.CurrencyToolConfig{APIKey: ""},
		},
	}

	redacted := redactConfigSecrets(original)
	assert.Equal(t, "sk-secret-123456", original.Model.APIKey)
	assert.Equal(t, "sk************56", redacted.Model.APIKey)
	assert.Equal(t, "****", redacted.Tools.Search.APIKey)
	assert.Empty(t, redacted.Tools.Currency.APIKey)
	assert.Nil(t, redactConfigSecrets(nil))
}

func TestEmbeddedConfigHasNoSecrets(t *testing.T) {
	for _, line := range strings.Split(string(embeddedDefaultConfig), "\n") {
		if strings.Contains(line, "api_key:") {
			assert.Contains(t, line, `""`)
		}
	}
}
