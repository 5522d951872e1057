package sandbox

import "context"

type SandboxManager interface {
	Setup(scope string) (*Sandbox, error)
	Teardown(sb *Sandbox) error
	Execute(ctx context.Context, sb *Sandbox, cmd string, args []string, opts ExecOptions) (*ExecResult, error)
}
