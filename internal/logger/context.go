package logger

import "context"

type contextKey string

const TraceIDKey contextKey = "trace_id"
const ToolCallIDKey contextKey = "tool_call_id"

// WithTraceID tags ctx with the run identifier used in every log line of a run.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}

func WithToolCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ToolCallIDKey, id)
}

func GetToolCallID(ctx context.Context) string {
	if id, ok := ctx.Value(ToolCallIDKey).(string); ok {
		return id
	}
	return ""
}
