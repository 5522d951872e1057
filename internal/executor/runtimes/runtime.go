package runtimes

// LanguageRuntime turns a source snippet into an interpreter invocation.
type LanguageRuntime interface {
	// ScriptName is the file the snippet is written to inside the sandbox.
	ScriptName() string
	// Command returns the program and arguments that run scriptPath.
	Command(scriptPath string) (string, []string, error)
	// Env is extra environment the interpreter runs with.
	Env() map[string]string
}
