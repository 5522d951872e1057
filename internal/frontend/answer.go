package frontend

import (
	"strings"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/conversation"
)

// Heading introduces every displayed answer.
const Heading = "Here’s a clear summary of your requests and answers:"

// Answer is what the front end shows for one Run.
type Answer struct {
	RunID    string        `json:"run_id"`
	Outcome  agent.Outcome `json:"outcome"`
	Text     string        `json:"answer"`
	Fallback bool          `json:"fallback,omitempty"`
	Turns    int           `json:"turns"`
}

// FinalAnswer scans msgs from newest to oldest for the first message whose
// text contains marker, case-insensitively. When none does, the last message
// is returned verbatim and fallback is true.
func FinalAnswer(msgs []conversation.Message, marker string) (text string, fallback bool) {
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		marker = config.DefaultAgentTerminalMarker
	}

	for i := len(msgs) - 1; i >= 0; i-- {
		content := conversation.Text(msgs[i])
		if strings.Contains(strings.ToLower(content), marker) {
			return content, false
		}
	}
	if len(msgs) == 0 {
		return "", true
	}
	return conversation.Text(msgs[len(msgs)-1]), true
}

// Present builds the displayed answer for a finished Run.
func Present(run *agent.Run, marker string) Answer {
	if run == nil || run.Conversation == nil {
		return Answer{Fallback: true}
	}
	text, fallback := FinalAnswer(run.Conversation.Messages(), marker)
	return Answer{
		RunID:    run.ID,
		Outcome:  run.Outcome,
		Text:     text,
		Fallback: fallback,
		Turns:    run.Turns,
	}
}
