package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/conversation"
	"github.com/viswa-prakash/estatebot/internal/pathutil"

	"github.com/natefinch/atomic"
)

// Transcript is the exported form of one Run.
type Transcript struct {
	RunID      string                `json:"run_id"`
	Query      string                `json:"query"`
	Outcome    agent.Outcome         `json:"outcome,omitempty"`
	Turns      int                   `json:"turns"`
	ToolCalls  int                   `json:"tool_calls"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	DurationMS int64                 `json:"duration_ms"`
	Error      string                `json:"error,omitempty"`
	Messages   []conversation.Record `json:"messages"`
}

// FromRun snapshots run. runErr is recorded when the Run aborted.
func FromRun(run *agent.Run, runErr error) Transcript {
	t := Transcript{
		RunID:      run.ID,
		Query:      run.Query,
		Outcome:    run.Outcome,
		Turns:      run.Turns,
		ToolCalls:  run.ToolCalls,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.Duration().Milliseconds(),
	}
	if run.Conversation != nil {
		t.Messages = run.Conversation.Records()
	}
	if runErr != nil {
		t.Error = runErr.Error()
	}
	return t
}

// Write replaces the file at path with the transcript.
func Write(path string, t Transcript) error {
	resolved, err := pathutil.Expand(path)
	if err != nil {
		return err
	}
	if resolved == "" {
		return fmt.Errorf("transcript path is empty")
	}
	if err := pathutil.EnsureParent(resolved); err != nil {
		return err
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	return atomic.WriteFile(resolved, bytes.NewReader(data))
}

func Read(path string) (Transcript, error) {
	var t Transcript
	resolved, err := pathutil.Expand(path)
	if err != nil {
		return t, err
	}
	content, err := os.ReadFile(resolved)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal(content, &t); err != nil {
		return t, fmt.Errorf("decode transcript %s: %w", resolved, err)
	}
	return t, nil
}
