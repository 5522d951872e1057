package runtimes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

const pythonScriptName = "main.py"

type PythonRuntime struct {
	argv []string
}

// NewPythonRuntime parses an interpreter command line such as "python3 -I"
// or "uv run python". The interpreter is resolved lazily on first use.
func NewPythonRuntime(command string) (*PythonRuntime, error) {
	argv, err := shlex.Split(strings.TrimSpace(command))
	if err != nil {
		return nil, fmt.Errorf("parse python command %q: %w", command, err)
	}
	if len(argv) == 0 {
		argv = []string{"python3"}
	}

	return &PythonRuntime{argv: argv}, nil
}

func (pr *PythonRuntime) ScriptName() string {
	return pythonScriptName
}

func (pr *PythonRuntime) Command(scriptPath string) (string, []string, error) {
	path, err := exec.LookPath(pr.argv[0])
	if err != nil {
		return "", nil, fmt.Errorf("python interpreter %q not found: %w", pr.argv[0], err)
	}

	args := make([]string, 0, len(pr.argv))
	args = append(args, pr.argv[1:]...)
	args = append(args, scriptPath)
	return path, args, nil
}

// Env keeps the sandbox free of bytecode caches and pins stdout to UTF-8.
func (pr *PythonRuntime) Env() map[string]string {
	return map[string]string{
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONIOENCODING":        "utf-8",
	}
}

// GetVersion reports the interpreter's --version line, run with the
// configured arguments.
func (pr *PythonRuntime) GetVersion(ctx context.Context) (string, error) {
	path, err := exec.LookPath(pr.argv[0])
	if err != nil {
		return "", fmt.Errorf("python interpreter %q not found: %w", pr.argv[0], err)
	}

	args := append(append([]string{}, pr.argv[1:]...), "--version")
	cmd := exec.CommandContext(ctx, path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("python --version: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
