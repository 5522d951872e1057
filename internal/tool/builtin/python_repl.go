package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	estateErrors "github.com/viswa-prakash/estatebot/internal/errors"
	"github.com/viswa-prakash/estatebot/internal/executor/runtimes"
	"github.com/viswa-prakash/estatebot/internal/sandbox"
	toolcore "github.com/viswa-prakash/estatebot/internal/tool"
)

const (
	truncatedMarker = "\n...[output truncated]"
	pythonScope     = "python_repl"
)

type pythonREPLInput struct {
	Code string `json:"code"`
}

// PythonREPLTool runs a Python snippet in a throwaway sandbox directory.
// Results must be printed; the tool returns stdout.
type PythonREPLTool struct {
	Runtime        runtimes.LanguageRuntime
	Timeout        time.Duration
	MaxOutputBytes int

	sandboxDir string
	once       sync.Once
	sandboxes  sandbox.SandboxManager
	initErr    error
}

func init() {
	toolcore.RegisterBuiltin("python_repl", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		runtime, err := runtimes.NewPythonRuntime(options.PythonCommand)
		if err != nil {
			return nil, err
		}
		return NewPythonREPLTool(runtime, options.PythonSandboxDir, options.PythonTimeout, options.PythonMaxOutputBytes), nil
	})
}

func NewPythonREPLTool(runtime runtimes.LanguageRuntime, sandboxDir string, timeout time.Duration, maxOutputBytes int) *PythonREPLTool {
	if timeout <= 0 {
		timeout = toolcore.DefaultBuiltinExecTimeout
	}
	if maxOutputBytes <= 0 {
		maxOutputBytes = toolcore.DefaultBuiltinMaxOutputSize
	}
	return &PythonREPLTool{
		Runtime:        runtime,
		Timeout:        timeout,
		MaxOutputBytes: maxOutputBytes,
		sandboxDir:     sandboxDir,
	}
}

func (t *PythonREPLTool) Name() string {
	return "python_repl"
}

func (t *PythonREPLTool) Description() string {
	return "Run Python code for custom calculations or comparisons. Use print(...) to return values; each call starts a fresh interpreter."
}

func (t *PythonREPLTool) ToolMetadata() toolcore.ToolMetadata {
	return toolcore.ToolMetadata{
		Source: "builtin",
		Capabilities: []string{
			"code.exec",
			"math.compute",
		},
		Risk: toolcore.RiskHigh,
	}
}

func (t *PythonREPLTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "Python source to execute",
				"minLength":   1,
			},
		},
		"required": []string{"code"},
	}
}

func (t *PythonREPLTool) manager() (sandbox.SandboxManager, error) {
	t.once.Do(func() {
		if t.sandboxes != nil {
			return
		}
		t.sandboxes, t.initErr = sandbox.NewBasicSandboxManager(t.sandboxDir, false)
	})
	return t.sandboxes, t.initErr
}

func (t *PythonREPLTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args pythonREPLInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, estateErrors.InvalidInput(fmt.Sprintf("python_repl arguments: %v", err))
	}
	code := sanitizeCode(args.Code)
	if strings.TrimSpace(code) == "" {
		return nil, estateErrors.InvalidInput("code is required")
	}
	if t.Runtime == nil {
		return nil, estateErrors.Internal("python runtime is not configured")
	}

	manager, err := t.manager()
	if err != nil {
		return nil, estateErrors.Internal(fmt.Sprintf("python sandbox unavailable: %v", err))
	}

	sb, err := manager.Setup(pythonScope)
	if err != nil {
		return nil, estateErrors.Internal(fmt.Sprintf("python sandbox setup: %v", err))
	}
	defer manager.Teardown(sb)

	scriptName := t.Runtime.ScriptName()
	if err := os.WriteFile(filepath.Join(sb.RootPath, scriptName), []byte(code), 0600); err != nil {
		return nil, estateErrors.Internal(fmt.Sprintf("write script: %v", err))
	}

	cmd, cmdArgs, err := t.Runtime.Command(scriptName)
	if err != nil {
		return nil, estateErrors.NotFound(err.Error())
	}

	res, err := manager.Execute(ctx, sb, cmd, cmdArgs, sandbox.ExecOptions{
		Timeout:        t.Timeout,
		MaxOutputBytes: t.MaxOutputBytes,
		Env:            t.Runtime.Env(),
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(formatExecResult(res, t.Timeout))
}

// sanitizeCode strips markdown fences and stray backticks models wrap code in.
func sanitizeCode(code string) string {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
			first := strings.TrimSpace(trimmed[:nl])
			if first == "" || strings.EqualFold(first, "python") || strings.EqualFold(first, "py") {
				trimmed = trimmed[nl+1:]
			}
		}
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "```"))
	}
	return strings.Trim(trimmed, "`") + "\n"
}

func formatExecResult(res *sandbox.ExecResult, timeout time.Duration) string {
	stdout := res.Stdout
	if res.Truncated {
		stdout += truncatedMarker
	}

	switch {
	case res.TimedOut:
		return fmt.Sprintf("Execution timed out after %s.\n%s", timeout, strings.TrimSpace(stdout))
	case res.ExitCode != 0:
		stderr := strings.TrimSpace(res.Stderr)
		out := strings.TrimSpace(stdout)
		if out != "" {
			return fmt.Sprintf("%s\n%s\n(exit status %d)", out, stderr, res.ExitCode)
		}
		return fmt.Sprintf("%s\n(exit status %d)", stderr, res.ExitCode)
	case strings.TrimSpace(stdout) == "":
		return "(no output; use print(...) to return values)"
	default:
		return stdout
	}
}
