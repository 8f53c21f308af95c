//go:build e2e

// Package framework provides the E2E test infrastructure for the stepper CLI.
package framework

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// Environment is an isolated directory tree with its own HOME, definitions
// and state directory.
type Environment struct {
	t          *testing.T
	rootDir    string
	flowDir    string
	stateDir   string
	homeDir    string
	binaryPath string
}

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
)

// findProjectRoot locates the project root directory.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// buildBinary builds the stepper binary once per test run.
func buildBinary(t *testing.T) (string, error) {
	buildOnce.Do(func() {
		root, err := findProjectRoot()
		if err != nil {
			buildErr = err
			return
		}

		binaryPath = filepath.Join(os.TempDir(), "stepper-e2e-test")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/stepper")
		cmd.Dir = root

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			buildErr = err
			t.Logf("Build stderr: %s", stderr.String())
		}
	})

	return binaryPath, buildErr
}

// NewEnvironment creates a new isolated test environment.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	binary, err := buildBinary(t)
	if err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}

	rootDir := t.TempDir()
	env := &Environment{
		t:          t,
		rootDir:    rootDir,
		flowDir:    filepath.Join(rootDir, "flows"),
		stateDir:   filepath.Join(rootDir, "state"),
		homeDir:    filepath.Join(rootDir, "home"),
		binaryPath: binary,
	}

	for _, dir := range []string{env.flowDir, env.stateDir, env.homeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	return env
}

// FlowDir returns the directory definitions are written to.
func (e *Environment) FlowDir() string {
	return e.flowDir
}

// StateDir returns the file store directory.
func (e *Environment) StateDir() string {
	return e.stateDir
}

// HomeDir returns the path to the simulated home directory.
func (e *Environment) HomeDir() string {
	return e.homeDir
}

// RootDir returns the path to the test root directory.
func (e *Environment) RootDir() string {
	return e.rootDir
}

// BinaryPath returns the path to the built binary.
func (e *Environment) BinaryPath() string {
	return e.binaryPath
}

// WriteDefinition writes a definition file and returns its path.
func (e *Environment) WriteDefinition(name, content string) string {
	e.t.Helper()

	path := filepath.Join(e.flowDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("Failed to write definition: %v", err)
	}
	return path
}

// StateFiles lists the files in the state directory.
func (e *Environment) StateFiles() []string {
	e.t.Helper()

	entries, err := os.ReadDir(e.stateDir)
	if err != nil {
		e.t.Fatalf("Failed to read state directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
