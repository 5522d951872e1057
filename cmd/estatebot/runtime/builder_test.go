package runtime

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/config"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/model/contract"
	"github.com/viswa-prakash/estatebot/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedProvider struct {
	responses []*contract.CompletionResponse
	requests  []contract.CompletionRequest
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	resp := p.responses[0]
	if len(p.responses) > 1 {
		p.responses = p.responses[1:]
	}
	return resp, nil
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPAPI_API_KEY", "serp-test")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-test")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.Tools.Python.SandboxDir = filepath.Join(t.TempDir(), "sandboxes")
	return cfg
}

func TestNewRuntimeBuilder(t *testing.T) {
	assert.NotNil(t, NewRuntimeBuilder())
}

func TestBuilder_Build_MissingConfig(t *testing.T) {
	_, err := NewRuntimeBuilder().WithContext(context.Background()).Build()
	assert.Error(t, err)
}

func TestBuilder_Build_MissingCredentials(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Tools.Search.APIKey = ""
	cfg.Tools.Currency.APIKey = ""

	_, err := NewRuntimeBuilder().WithConfig(cfg).WithProvider(&cannedProvider{}).Build()
	require.ErrorIs(t, err, estateErrors.ErrMissingCredential)
	assert.Contains(t, err.Error(), "SERPAPI_API_KEY")
	assert.Contains(t, err.Error(), "ALPHA_VANTAGE_API_KEY")
}

func TestBuilder_Build_WiresCatalog(t *testing.T) {
	cfg := loadTestConfig(t)
	provider := &cannedProvider{responses: []*contract.CompletionResponse{{Content: "Final answer: hello"}}}

	rt, err := NewRuntimeBuilder().WithConfig(cfg).WithProvider(provider).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, rt.Registry.Len())
	assert.Equal(t, config.DefaultAgentMaxMessages, rt.Engine.MaxMessages())

	_, err = rt.Ask(context.Background(), "hi", "")
	require.NoError(t, err)
	require.Len(t, provider.requests, 1)

	var names []string
	for _, def := range provider.requests[0].Tools {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"currency_exchange", "mortgage_calculator", "python_repl", "web_search"}, names)
	assert.Equal(t, contract.RoleSystem, provider.requests[0].Messages[0].Role)
}

func TestRuntime_AskRunsToolsAndWritesTranscript(t *testing.T) {
	cfg := loadTestConfig(t)
	provider := &cannedProvider{responses: []*contract.CompletionResponse{
		{ToolCalls: []*contract.ToolCall{{ID: "call_1", Name: "mortgage_calculator", Input: `{"loan":300000,"rate":0,"years":30}`}}},
		{Content: "Final answer: $833.33 per month"},
	}}

	rt, err := NewRuntimeBuilder().WithConfig(cfg).WithProvider(provider).Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "run.json")
	answer, err := rt.Ask(context.Background(), "payment?", path)
	require.NoError(t, err)
	assert.Equal(t, agent.OutcomeAnswered, answer.Outcome)
	assert.Equal(t, "Final answer: $833.33 per month", answer.Text)

	saved, err := transcript.Read(path)
	require.NoError(t, err)
	assert.Equal(t, answer.RunID, saved.RunID)
	require.Len(t, saved.Messages, 4)
	assert.Contains(t, saved.Messages[2].Content, "Monthly Payment: $833.33")
	assert.False(t, saved.Messages[2].IsError)
}

func TestBuiltinOptions(t *testing.T) {
	cfg := loadTestConfig(t)
	timeouts, err := cfg.Timeouts()
	require.NoError(t, err)

	opts := BuiltinOptions(cfg, timeouts)
	assert.Equal(t, "serp-test", opts.SearchAPIKey)
	assert.Equal(t, "av-test", opts.CurrencyAPIKey)
	assert.Equal(t, config.DefaultCurrencyToolRPM, opts.CurrencyRequestsPerMinute)
	assert.Equal(t, timeouts.Python, opts.PythonTimeout)
}

func TestPythonVersion(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Tools.Python.Command = `sh -c 'echo Python 3.99.0'`

	version, err := PythonVersion(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Python 3.99.0", version)

	cfg.Tools.Python.Command = "estatebot-no-such-python"
	_, err = PythonVersion(context.Background(), cfg)
	require.Error(t, err)
}
