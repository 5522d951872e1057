package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Expand resolves environment variables and "~/" home shortcuts.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}

	expanded := os.ExpandEnv(trimmed)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(expanded, "~"), "/"))
	}

	return filepath.Clean(expanded), nil
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func homeDir() (string, error) {
	candidates := make([]string, 0, 3)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, home)
	}
	if current, err := user.Current(); err == nil {
		candidates = append(candidates, current.HomeDir)
	}
	candidates = append(candidates, os.Getenv("HOME"))

	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed != "" && trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("home directory is not resolvable")
}
