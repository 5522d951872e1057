package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_HomeShortcut(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("user home dir: %v", err)
	}

	got, err := Expand("~/.estatebot/transcripts")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	want := filepath.Join(home, ".estatebot", "transcripts")
	if got != want {
		t.Fatalf("path mismatch: got %q want %q", got, want)
	}
}

func TestExpand_BareTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("user home dir: %v", err)
	}

	got, err := Expand("~")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}
	if got != filepath.Clean(home) {
		t.Fatalf("path mismatch: got %q want %q", got, home)
	}
}

func TestExpand_EnvVar(t *testing.T) {
	t.Setenv("ESTATEBOT_PATH_TEST", "/tmp/estatebot-path")

	got, err := Expand("$ESTATEBOT_PATH_TEST/sandboxes")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	want := filepath.Clean("/tmp/estatebot-path/sandboxes")
	if got != want {
		t.Fatalf("path mismatch: got %q want %q", got, want)
	}
}

func TestExpand_Empty(t *testing.T) {
	got, err := Expand("   ")
	if err != nil {
		t.Fatalf("expand empty: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}

func TestEnsureParent_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "run.json")
	if err := EnsureParent(target); err != nil {
		t.Fatalf("ensure parent: %v", err)
	}
	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		t.Fatalf("stat parent: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("parent is not a directory")
	}
}
