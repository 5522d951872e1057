package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const waitDelay = 500 * time.Millisecond

type BasicSandboxManager struct {
	mu                   sync.RWMutex
	sandboxes            map[string]*Sandbox
	baseDir              string
	enableTraversalCheck bool
}

func NewBasicSandboxManager(baseDir string, enableTraversalCheck bool) (*BasicSandboxManager, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "estatebot", "sandboxes")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox base directory: %w", err)
	}

	return &BasicSandboxManager{
		sandboxes:            make(map[string]*Sandbox),
		baseDir:              baseDir,
		enableTraversalCheck: enableTraversalCheck,
	}, nil
}

func (bsm *BasicSandboxManager) Setup(scope string) (*Sandbox, error) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	if scope == "" {
		scope = "default"
	}
	if bsm.containsPathTraversal(scope) {
		return nil, fmt.Errorf("invalid sandbox scope: %s", scope)
	}

	sandboxID := ulid.Make().String()
	sandboxPath := filepath.Join(bsm.baseDir, scope, sandboxID)

	if err := os.MkdirAll(sandboxPath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sandbox directory: %w", err)
	}

	sb := &Sandbox{
		ID:        sandboxID,
		Scope:     scope,
		RootPath:  sandboxPath,
		State:     SandboxStateReady,
		CreatedAt: time.Now(),
	}

	bsm.sandboxes[sandboxID] = sb
	slog.Debug("Basic sandbox created", "sandbox_id", sandboxID, "path", sandboxPath)

	return sb, nil
}

func (bsm *BasicSandboxManager) Teardown(sb *Sandbox) error {
	if sb == nil {
		return nil
	}

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	sb.State = SandboxStateTeardown
	if err := os.RemoveAll(sb.RootPath); err != nil {
		sb.State = SandboxStateError
		slog.Error("Failed to remove sandbox directory", "error", err, "path", sb.RootPath)
		return err
	}
	delete(bsm.sandboxes, sb.ID)
	slog.Debug("Basic sandbox removed", "sandbox_id", sb.ID)

	return nil
}

// Active returns the number of sandboxes not yet torn down.
func (bsm *BasicSandboxManager) Active() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sandboxes)
}

func (bsm *BasicSandboxManager) Execute(ctx context.Context, sb *Sandbox, cmd string, args []string, opts ExecOptions) (*ExecResult, error) {
	if sb == nil {
		return nil, fmt.Errorf("sandbox is required")
	}
	if cmd == "" {
		return nil, fmt.Errorf("command is required")
	}

	if bsm.enableTraversalCheck {
		for _, arg := range args {
			if bsm.containsPathTraversal(arg) {
				return nil, fmt.Errorf("path traversal detected in argument: %s", arg)
			}
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	slog.Debug("Executing command in sandbox", "sandbox_id", sb.ID, "cmd", cmd, "args", args)

	execCmd := exec.CommandContext(ctx, cmd, args...)
	execCmd.Dir = sb.RootPath
	execCmd.Env = sandboxEnv(sb.RootPath, opts.Env)
	// Children may keep the output pipes open after the process is killed.
	execCmd.WaitDelay = waitDelay

	stdout := &limitedBuffer{limit: opts.MaxOutputBytes}
	stderr := &limitedBuffer{limit: opts.MaxOutputBytes}
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	sb.State = SandboxStateRunning
	start := time.Now()
	runErr := execCmd.Run()
	sb.State = SandboxStateReady

	result := &ExecResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  time.Since(start),
	}

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
			result.ExitCode = -1
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("execute command in sandbox: %w", runErr)
	}

	return result, nil
}

func (bsm *BasicSandboxManager) containsPathTraversal(path string) bool {
	return strings.Contains(path, "..") || strings.HasPrefix(path, "/") || strings.Contains(path, "~")
}

// sandboxEnv passes through only what an interpreter needs to start.
func sandboxEnv(root string, extra map[string]string) []string {
	env := []string{"HOME=" + root, "TMPDIR=" + root}
	for _, key := range []string{"PATH", "LANG", "LC_ALL", "SYSTEMROOT"} {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	for k, v := range extra {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

// limitedBuffer keeps the first limit bytes and discards the rest.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	remaining := b.limit - b.buf.Len()
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
