package agent

import (
	"strings"

	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/conversation"
)

// Decision is the continuation state evaluated after each Reasoning Step.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionEnd      Decision = "end"
)

// TerminalDetector reports whether an assistant message finishes the Run.
type TerminalDetector interface {
	IsTerminal(msg conversation.AssistantMessage) bool
}

// MarkerDetector matches a case-insensitive substring in the message text.
type MarkerDetector struct {
	marker string
}

func NewMarkerDetector(marker string) *MarkerDetector {
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		marker = config.DefaultAgentTerminalMarker
	}
	return &MarkerDetector{marker: marker}
}

func (d *MarkerDetector) IsTerminal(msg conversation.AssistantMessage) bool {
	return strings.Contains(strings.ToLower(msg.Content), d.marker)
}

// Decide applies the continuation rules to the latest assistant message.
// The cap is checked before tool requests so a Run that keeps calling tools
// ends at the first Reasoning Step output past the cap.
func Decide(msg conversation.AssistantMessage, messageCount, maxMessages int, detector TerminalDetector) (Decision, Outcome) {
	switch {
	case detector.IsTerminal(msg):
		return DecisionEnd, OutcomeAnswered
	case messageCount > maxMessages:
		return DecisionEnd, OutcomeTruncated
	case msg.RequestsTools():
		return DecisionContinue, ""
	default:
		return DecisionEnd, OutcomeNoOp
	}
}
