package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/conversation"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/logger"

	"github.com/oklog/ulid/v2"
)

// Error types for a Run
type ErrorType string

const (
	ErrReasoning ErrorType = "reasoning"
	ErrActing    ErrorType = "acting"
	ErrState     ErrorType = "state"
)

type RunError struct {
	Type    ErrorType
	RunID   string
	Message string
	Cause   error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] run %s: %s: %v", e.Type, e.RunID, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] run %s: %s", e.Type, e.RunID, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// Engine drives the reason/act loop.
type Engine struct {
	thinker     Thinker
	actor       Actor
	detector    TerminalDetector
	maxMessages int
	now         func() time.Time
}

func NewEngine(thinker Thinker, actor Actor, detector TerminalDetector, maxMessages int) *Engine {
	if maxMessages <= 0 {
		maxMessages = config.DefaultAgentMaxMessages
	}
	if detector == nil {
		detector = NewMarkerDetector(config.DefaultAgentTerminalMarker)
	}

	return &Engine{
		thinker:     thinker,
		actor:       actor,
		detector:    detector,
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

func (e *Engine) MaxMessages() int {
	return e.maxMessages
}

// Run answers one query with a fresh conversation. A model failure or
// cancellation aborts the Run; the partial Run is returned with the error.
func (e *Engine) Run(ctx context.Context, query string) (*Run, error) {
	if strings.TrimSpace(query) == "" {
		return nil, estateErrors.InvalidInput("query is empty")
	}

	run := &Run{
		ID:           ulid.Make().String(),
		Query:        query,
		Conversation: conversation.New(query),
		StartedAt:    e.now(),
	}
	ctx = logger.WithTraceID(ctx, run.ID)
	defer func() {
		if run.FinishedAt.IsZero() {
			run.FinishedAt = e.now()
		}
	}()

	slog.Info("Run started", "run_id", run.ID, "max_messages", e.maxMessages)

	for {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		msg, err := e.thinker.Think(ctx, run.Conversation)
		if err != nil {
			return run, &RunError{Type: ErrReasoning, RunID: run.ID, Message: "reasoning step failed", Cause: err}
		}
		run.Turns++
		run.Conversation.Append(msg)

		decision, outcome := Decide(msg, run.Conversation.Len(), e.maxMessages, e.detector)
		slog.Debug("Continuation decision", "run_id", run.ID, "turn", run.Turns, "messages", run.Conversation.Len(), "tool_calls", len(msg.ToolCalls), "decision", decision)
		if decision == DecisionEnd {
			run.Outcome = outcome
			run.FinishedAt = e.now()
			slog.Info("Run finished", "run_id", run.ID, "outcome", outcome, "turns", run.Turns, "tool_calls", run.ToolCalls, "messages", run.Conversation.Len(), "duration", run.Duration())
			return run, nil
		}

		results, err := e.actor.Act(ctx, msg)
		if err != nil {
			return run, &RunError{Type: ErrActing, RunID: run.ID, Message: "acting step aborted", Cause: err}
		}
		if err := run.Conversation.AppendToolResults(results); err != nil {
			return run, &RunError{Type: ErrState, RunID: run.ID, Message: "tool results rejected", Cause: err}
		}
		run.ToolCalls += len(results)
	}
}
