package conversation

import (
	"fmt"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
)

// Conversation is the append-only message sequence of one Run.
type Conversation struct {
	messages []Message
}

// New starts a conversation holding the user's query.
func New(query string) *Conversation {
	return &Conversation{messages: []Message{UserMessage{Content: query}}}
}

func (c *Conversation) Append(msg Message) {
	if msg == nil {
		return
	}
	c.messages = append(c.messages, msg)
}

// AppendToolResults appends the results of one Acting Step. The latest
// message must be the assistant message that requested the calls, and
// results must answer each call exactly once in the order issued.
func (c *Conversation) AppendToolResults(results []ToolResultMessage) error {
	asst, ok := c.lastAssistant()
	if !ok {
		return estateErrors.InvalidInput("tool results without a preceding assistant message")
	}
	if len(results) != len(asst.ToolCalls) {
		return estateErrors.InvalidInput(fmt.Sprintf("%d tool results for %d tool calls", len(results), len(asst.ToolCalls)))
	}
	for i, res := range results {
		if res.CallID != asst.ToolCalls[i].ID {
			return estateErrors.InvalidInput(fmt.Sprintf("tool result %q does not match call %q at position %d", res.CallID, asst.ToolCalls[i].ID, i))
		}
	}

	for _, res := range results {
		c.messages = append(c.messages, res)
	}
	return nil
}

// lastAssistant returns the latest message when it is an assistant message.
func (c *Conversation) lastAssistant() (AssistantMessage, bool) {
	if len(c.messages) == 0 {
		return AssistantMessage{}, false
	}
	asst, ok := c.messages[len(c.messages)-1].(AssistantMessage)
	return asst, ok
}

// Messages returns a copy of the sequence.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message, or nil when empty.
func (c *Conversation) Last() Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Records returns the conversation in serializable form.
func (c *Conversation) Records() []Record {
	out := make([]Record, 0, len(c.messages))
	for _, msg := range c.messages {
		out = append(out, ToRecord(msg))
	}
	return out
}
