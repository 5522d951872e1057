package agent

import (
	"time"

	"github.com/viswa-prakash/estatebot/internal/conversation"
)

// Outcome is how a Run ended.
type Outcome string

const (
	OutcomeAnswered  Outcome = "answered"
	OutcomeTruncated Outcome = "truncated"
	OutcomeNoOp      Outcome = "no_op"
)

// Run is one execution of the loop for a single query.
type Run struct {
	ID           string
	Query        string
	Outcome      Outcome
	Conversation *conversation.Conversation
	Turns        int
	ToolCalls    int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is zero until the Run has finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
