package agent

import (
	"context"
	"encoding/json"

	"github.com/viswa-prakash/estatebot/internal/model/contract"

	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a mock of LLMClient interface
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error) {
	args := m.Called(ctx, messages, tools)
	resp, _ := args.Get(0).(*contract.CompletionResponse)
	return resp, args.Error(1)
}

// MockToolExecutor is a mock of ToolExecutor interface
type MockToolExecutor struct {
	mock.Mock
}

func (m *MockToolExecutor) Execute(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	args := m.Called(ctx, name, input)
	out, _ := args.Get(0).(json.RawMessage)
	return out, args.Error(1)
}

func answer(content string) *contract.CompletionResponse {
	return &contract.CompletionResponse{Content: content}
}

func toolCall(id, name, input string) *contract.CompletionResponse {
	return &contract.CompletionResponse{ToolCalls: []*contract.ToolCall{{ID: id, Name: name, Input: input}}}
}
