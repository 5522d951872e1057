package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/conversation"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/logger"
	"github.com/viswa-prakash/estatebot/internal/model/contract"
)

type UnifiedThinker struct {
	llm    LLMClient
	tools  []contract.ToolDef
	system string
	window *conversation.Window
}

// NewThinker builds the Reasoning Step. An empty system prompt selects the
// default real-estate prompt; a nil window sends the full history.
func NewThinker(llm LLMClient, tools []contract.ToolDef, system string, window *conversation.Window) *UnifiedThinker {
	if strings.TrimSpace(system) == "" {
		system = config.DefaultSystemPrompt
	}

	return &UnifiedThinker{
		llm:    llm,
		tools:  tools,
		system: system,
		window: window,
	}
}

func (t *UnifiedThinker) Think(ctx context.Context, conv *conversation.Conversation) (conversation.AssistantMessage, error) {
	history := t.window.Select(conv.Messages())

	messages := make([]contract.Message, 0, len(history)+1)
	messages = append(messages, contract.Message{Role: contract.RoleSystem, Content: t.system})
	messages = append(messages, toContract(history)...)

	slog.Debug("Reasoning step", "history", conv.Len(), "sent", len(history), "trace_id", logger.GetTraceID(ctx))

	resp, err := t.llm.ChatComplete(ctx, messages, t.tools)
	if err != nil {
		return conversation.AssistantMessage{}, fmt.Errorf("reasoning step failed: %w", err)
	}
	if resp == nil {
		return conversation.AssistantMessage{}, estateErrors.InvalidModelOutput("empty completion")
	}

	if len(resp.Content) > 0 {
		slog.Debug("LLM Content Preview", "content", previewText(resp.Content, 200))
	}

	return fromContract(resp), nil
}

// previewText cuts s to at most n runes.
func previewText(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func toContract(msgs []conversation.Message) []contract.Message {
	out := make([]contract.Message, 0, len(msgs))
	for _, msg := range msgs {
		switch m := msg.(type) {
		case conversation.UserMessage:
			out = append(out, contract.Message{Role: contract.RoleUser, Content: m.Content})
		case conversation.AssistantMessage:
			cm := contract.Message{Role: contract.RoleAssistant, Content: m.Content}
			for _, tc := range m.ToolCalls {
				cm.ToolCalls = append(cm.ToolCalls, &contract.ToolCall{ID: tc.ID, Name: tc.Name, Input: string(tc.Arguments)})
			}
			out = append(out, cm)
		case conversation.ToolResultMessage:
			out = append(out, contract.Message{Role: contract.RoleTool, Content: m.Content, Name: m.Name, ToolCallID: m.CallID, IsError: m.IsError})
		}
	}
	return out
}

func fromContract(resp *contract.CompletionResponse) conversation.AssistantMessage {
	msg := conversation.AssistantMessage{Content: resp.Content}
	for _, tc := range resp.ToolCalls {
		if tc == nil {
			continue
		}
		msg.ToolCalls = append(msg.ToolCalls, conversation.ToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: rawArguments(tc.Input),
		})
	}
	return msg
}

// rawArguments keeps model-supplied arguments as JSON. Text that is not
// valid JSON is carried as a JSON string so validation can reject it.
func rawArguments(input string) json.RawMessage {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return json.RawMessage(`{}`)
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return quoted
}
