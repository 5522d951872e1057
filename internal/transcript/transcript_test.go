package transcript

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/viswa-prakash/estatebot/internal/agent"
	"github.com/viswa-prakash/estatebot/internal/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *agent.Run {
	conv := conversation.New("payment on 300k at 0% for 30 years?")
	conv.Append(conversation.AssistantMessage{ToolCalls: []conversation.ToolCall{{
		ID: "call_1", Name: "mortgage_calculator", Arguments: json.RawMessage(`{"loan":300000,"rate":0,"years":30}`),
	}}})
	_ = conv.AppendToolResults([]conversation.ToolResultMessage{{CallID: "call_1", Name: "mortgage_calculator", Content: "Monthly Payment: $833.33"}})
	conv.Append(conversation.AssistantMessage{Content: "Final answer: $833.33 per month"})

	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return &agent.Run{
		ID:           "01JTRANSCRIPT",
		Query:        "payment on 300k at 0% for 30 years?",
		Outcome:      agent.OutcomeAnswered,
		Conversation: conv,
		Turns:        2,
		ToolCalls:    1,
		StartedAt:    start,
		FinishedAt:   start.Add(3 * time.Second),
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "run.json")

	require.NoError(t, Write(path, FromRun(sampleRun(), nil)))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "01JTRANSCRIPT", got.RunID)
	assert.Equal(t, agent.OutcomeAnswered, got.Outcome)
	assert.Equal(t, 1, got.ToolCalls)
	assert.Equal(t, int64(3000), got.DurationMS)
	assert.Empty(t, got.Error)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, conversation.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "mortgage_calculator", got.Messages[1].ToolCalls[0].Name)
	assert.Equal(t, "call_1", got.Messages[2].CallID)
	assert.Equal(t, "Final answer: $833.33 per month", got.Messages[3].Content)
}

func TestWrite_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, Write(path, FromRun(sampleRun(), nil)))

	run := sampleRun()
	run.ID = "01JSECOND"
	require.NoError(t, Write(path, FromRun(run, errors.New("model unavailable"))))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "01JSECOND", got.RunID)
	assert.Equal(t, "model unavailable", got.Error)
}

func TestWrite_EmptyPath(t *testing.T) {
	assert.Error(t, Write("  ", Transcript{}))
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFromRun_UnfinishedRunHasNoDuration(t *testing.T) {
	run := sampleRun()
	run.FinishedAt = time.Time{}
	assert.Zero(t, FromRun(run, nil).DurationMS)
}
