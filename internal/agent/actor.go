package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viswa-prakash/estatebot/internal/conversation"
	"github.com/viswa-prakash/estatebot/internal/logger"
)

type UnifiedActor struct {
	toolExecutor ToolExecutor
}

func NewActor(te ToolExecutor) *UnifiedActor {
	return &UnifiedActor{
		toolExecutor: te,
	}
}

// Act runs every requested tool in order. Tool failures are folded into the
// result content; only cancellation stops the step.
func (a *UnifiedActor) Act(ctx context.Context, msg conversation.AssistantMessage) ([]conversation.ToolResultMessage, error) {
	results := make([]conversation.ToolResultMessage, 0, len(msg.ToolCalls))

	for _, tc := range msg.ToolCalls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		callCtx := logger.WithToolCallID(ctx, tc.ID)
		start := time.Now()
		slog.Info("Executing tool", "tool", tc.Name, "call_id", tc.ID, "trace_id", logger.GetTraceID(ctx))
		slog.Debug("Tool input", "tool", tc.Name, "input", string(tc.Arguments))

		result := conversation.ToolResultMessage{CallID: tc.ID, Name: tc.Name}
		res, err := a.toolExecutor.Execute(callCtx, tc.Name, tc.Arguments)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Warn("Tool execution failed", "tool", tc.Name, "error", err, "duration", time.Since(start))
			result.Content = fmt.Sprintf("Tool %s failed: %v", tc.Name, err)
			result.IsError = true
		} else {
			result.Content = toolOutputText(res)
			slog.Debug("Tool output", "tool", tc.Name, "output_len", len(result.Content), "duration", time.Since(start))
		}

		results = append(results, result)
	}

	return results, nil
}
