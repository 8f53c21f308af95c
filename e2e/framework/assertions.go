//go:build e2e

package framework

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccess asserts that the command exited with code 0.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	assert.Truef(t, r.Success(), "exit code %d\nstdout: %s\nstderr: %s", r.ExitCode, r.Stdout, r.Stderr)
}

// AssertExitCode asserts the expected exit code.
func AssertExitCode(t *testing.T, r *Result, expected int) {
	t.Helper()
	assert.Equalf(t, expected, r.ExitCode, "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
}

// AssertStdoutContains asserts that stdout contains every expected substring.
func AssertStdoutContains(t *testing.T, r *Result, expected ...string) {
	t.Helper()
	for _, e := range expected {
		assert.Contains(t, r.Stdout, e)
	}
}

// AssertStderrContains asserts that stderr contains the expected substring.
func AssertStderrContains(t *testing.T, r *Result, expected string) {
	t.Helper()
	assert.Contains(t, r.Stderr, expected)
}

// AssertStderrEmpty asserts that nothing was logged.
func AssertStderrEmpty(t *testing.T, r *Result) {
	t.Helper()
	assert.Empty(t, r.Stderr)
}

// SessionStatus is the subset of "stepper show --json" the scenarios check.
type SessionStatus struct {
	Session string `json:"session"`
	Current string `json:"current"`
	Index   int    `json:"index"`
	Steps   []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"steps"`
}

// DecodeStatus parses the output of a --json status command.
func DecodeStatus(t *testing.T, r *Result) SessionStatus {
	t.Helper()
	AssertSuccess(t, r)

	var status SessionStatus
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &status), "stdout: %s", r.Stdout)
	return status
}

// AssertAtStep asserts that the session of the runner's definition is at id.
func AssertAtStep(t *testing.T, runner *Runner, session, id string) {
	t.Helper()
	status := DecodeStatus(t, runner.Flow("show", "--json", "--session", session))
	assert.Equal(t, id, status.Current)
}
