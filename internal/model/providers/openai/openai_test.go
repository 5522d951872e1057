package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viswa-prakash/estatebot/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderGenerate_ToolCallRoundTrip(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4.1",
			"choices":[{"index":0,"finish_reason":"tool_calls","message":{
				"role":"assistant","content":"",
				"tool_calls":[
					{"id":"call_a","type":"function","function":{"name":"mortgage_calculator","arguments":"{\"loan\":500000,\"rate\":7,\"years\":25}"}},
					{"id":"","type":"function","function":{"name":"currency_exchange","arguments":"{\"from_currency\":\"USD\",\"to_currency\":\"EUR\"}"}}
				]}}]}`)
	}))
	defer server.Close()

	p := New("sk-test", server.URL, server.Client())
	resp, err := p.Generate(context.Background(), contract.CompletionRequest{
		Model: "gpt-4.1",
		Messages: []contract.Message{
			{Role: contract.RoleSystem, Content: "be helpful"},
			{Role: contract.RoleUser, Content: "payment?"},
			{Role: contract.RoleAssistant, ToolCalls: []*contract.ToolCall{{ID: "call_0", Name: "web_search", Input: `{"query":"austin"}`}}},
			{Role: contract.RoleTool, ToolCallID: "call_0", Name: "web_search", Content: "prices up"},
		},
		Tools: []contract.ToolDef{{Name: "mortgage_calculator", Description: "calc"}},
	})
	require.NoError(t, err)

	require.Len(t, resp.ToolCalls, 2)
	assert.Equal(t, "call_a", resp.ToolCalls[0].ID)
	assert.Equal(t, "mortgage_calculator", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"loan":500000,"rate":7,"years":25}`, resp.ToolCalls[0].Input)
	assert.Equal(t, "call_2", resp.ToolCalls[1].ID)

	msgs, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 4)
	toolMsg := msgs[3].(map[string]interface{})
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_0", toolMsg["tool_call_id"])

	tools, ok := captured["tools"].([]interface{})
	require.True(t, ok)
	fn := tools[0].(map[string]interface{})["function"].(map[string]interface{})
	assert.Equal(t, "mortgage_calculator", fn["name"])
	assert.NotNil(t, fn["parameters"])
}

func TestProviderGenerate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[]}`)
	}))
	defer server.Close()

	p := New("sk-test", server.URL, server.Client())
	_, err := p.Generate(context.Background(), contract.CompletionRequest{Model: "gpt-4.1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
