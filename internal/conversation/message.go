package conversation

import (
	"encoding/json"
)

// Role names the speaker of a message.
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool"
)

// Message is one entry of a Conversation. The set of variants is closed:
// UserMessage, AssistantMessage and ToolResultMessage.
type Message interface {
	Role() Role
	Text() string
	isMessage()
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type UserMessage struct {
	Content string `json:"content"`
}

func (UserMessage) Role() Role     { return RoleUser }
func (m UserMessage) Text() string { return m.Content }
func (UserMessage) isMessage()     {}

// AssistantMessage is the output of one Reasoning Step.
type AssistantMessage struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

func (AssistantMessage) Role() Role     { return RoleAssistant }
func (m AssistantMessage) Text() string { return m.Content }
func (AssistantMessage) isMessage()     {}

func (m AssistantMessage) RequestsTools() bool {
	return len(m.ToolCalls) > 0
}

// ToolResultMessage carries the output of exactly one ToolCall.
type ToolResultMessage struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

func (ToolResultMessage) Role() Role     { return RoleToolResult }
func (m ToolResultMessage) Text() string { return m.Content }
func (ToolResultMessage) isMessage()     {}

// Text returns the textual content of any message, or "" for nil.
func Text(msg Message) string {
	if msg == nil {
		return ""
	}
	return msg.Text()
}

// Record is the serialized form of a Message.
type Record struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CallID    string     `json:"call_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	IsError   bool       `json:"is_error,omitempty"`
}

func ToRecord(msg Message) Record {
	switch m := msg.(type) {
	case UserMessage:
		return Record{Role: RoleUser, Content: m.Content}
	case AssistantMessage:
		return Record{Role: RoleAssistant, Content: m.Content, ToolCalls: m.ToolCalls}
	case ToolResultMessage:
		return Record{Role: RoleToolResult, Content: m.Content, CallID: m.CallID, Name: m.Name, IsError: m.IsError}
	default:
		return Record{}
	}
}
