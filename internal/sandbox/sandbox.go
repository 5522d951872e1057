package sandbox

import (
	"time"
)

// Sandbox is a scratch directory a single tool call runs in.
type Sandbox struct {
	ID        string
	Scope     string
	RootPath  string
	State     SandboxState
	CreatedAt time.Time
}

type SandboxState string

const (
	SandboxStateReady    SandboxState = "ready"
	SandboxStateRunning  SandboxState = "running"
	SandboxStateTeardown SandboxState = "teardown"
	SandboxStateError    SandboxState = "error"
)

// ExecOptions bounds one command run inside a sandbox.
type ExecOptions struct {
	Timeout        time.Duration
	MaxOutputBytes int
	Env            map[string]string
}

// ExecResult is the captured outcome of a command. A non-zero exit is
// reported here, not as an error.
type ExecResult struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Truncated bool
	Duration  time.Duration
}
