package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/viswa-prakash/estatebot/internal/concurrency"
	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/logger"
)

type Runner struct {
	registry *Registry
}

func NewRunner(registry *Registry) *Runner {
	return &Runner{
		registry: registry,
	}
}

func (r *Runner) GetDescriptors() []ToolDescriptor {
	if r == nil || r.registry == nil {
		return nil
	}
	return r.registry.GetDescriptors()
}

// Execute handles the full lifecycle: Lookup -> Validate -> Run Tool -> Return Result
func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (json.RawMessage, error) {
	t, ok := r.registry.Get(toolName)
	if !ok {
		name := NormalizeToolName(toolName)
		if IsBuiltinName(name) {
			return nil, estateErrors.NotFound(fmt.Sprintf("tool %q is a built-in but is not enabled", name))
		}
		return nil, estateErrors.NotFound(fmt.Sprintf("tool %q not found", name))
	}
	resolvedToolName := NormalizeToolName(t.Name())

	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", resolvedToolName, "error", err)
		return nil, fmt.Errorf("%v: %w", err, estateErrors.ErrInvalidInput)
	}

	start := time.Now()
	traceID := logger.GetTraceID(ctx)
	callID := logger.GetToolCallID(ctx)
	slog.Debug("Running tool", "tool", resolvedToolName, "call_id", callID, "trace_id", traceID)

	var result json.RawMessage
	err := concurrency.Call("tool:"+resolvedToolName, func() error {
		var execErr error
		result, execErr = t.Execute(ctx, input)
		return execErr
	})

	duration := time.Since(start)
	if err != nil {
		slog.Error("Tool execution failed", "tool", resolvedToolName, "call_id", callID, "error", err, "duration", duration, "trace_id", traceID)
		return nil, estateErrors.MapError(err)
	}

	slog.Info("Tool execution success", "tool", resolvedToolName, "call_id", callID, "duration", duration, "trace_id", traceID)
	return result, nil
}
