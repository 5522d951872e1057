package agent

import (
	"context"
	"encoding/json"

	"github.com/viswa-prakash/estatebot/internal/conversation"
	"github.com/viswa-prakash/estatebot/internal/model/contract"
)

// LLMClient abstracts the chat-completion provider.
type LLMClient interface {
	ChatComplete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error)
}

// ToolExecutor executes a single tool by name.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error)
}

// Thinker is the Reasoning Step: it reads the conversation and produces the
// next assistant message.
type Thinker interface {
	Think(ctx context.Context, conv *conversation.Conversation) (conversation.AssistantMessage, error)
}

// Actor is the Acting Step: it runs the tools requested by an assistant
// message and returns one result per call, in request order.
type Actor interface {
	Act(ctx context.Context, msg conversation.AssistantMessage) ([]conversation.ToolResultMessage, error)
}
