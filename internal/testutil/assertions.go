package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
)

// AssertFileContains asserts that a file contains the expected string.
func AssertFileContains(t testing.TB, path, expected string, msgAndArgs ...interface{}) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	assert.Contains(t, string(content), expected, msgAndArgs...)
}

// AssertYAMLEquals asserts that two YAML strings are semantically equal.
func AssertYAMLEquals(t testing.TB, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedMap, actualMap interface{}

	err := yaml.Unmarshal([]byte(expected), &expectedMap)
	require.NoError(t, err, "failed to parse expected YAML")

	err = yaml.Unmarshal([]byte(actual), &actualMap)
	require.NoError(t, err, "failed to parse actual YAML")

	assert.Equal(t, expectedMap, actualMap, msgAndArgs...)
}

// AssertAt asserts that the current step of s is id.
func AssertAt(t testing.TB, s *stepper.Stepper, id string, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, id, s.Current().ID, msgAndArgs...)
}

// AssertStatus asserts the status of step id.
func AssertStatus(t testing.TB, s *stepper.Stepper, id string, expected step.Status, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, s.Status(id), msgAndArgs...)
}

// AssertStateComplete asserts the structural invariants of a navigation
// state: statuses and metadata hold exactly the registry ids, and the
// history cursor is in range.
func AssertStateComplete(t testing.TB, r *step.Registry, s *navigation.State) {
	t.Helper()

	require.NotNil(t, s)
	ids := r.IDs()
	assert.Len(t, s.Statuses, len(ids))
	assert.Len(t, s.Metadata, len(ids))
	for _, id := range ids {
		assert.Contains(t, s.Statuses, id)
		assert.Contains(t, s.Metadata, id)
	}
	assert.GreaterOrEqual(t, s.HistoryIndex, 0)
	assert.Less(t, s.HistoryIndex, len(s.History))
	assert.GreaterOrEqual(t, s.CurrentIndex, 0)
	assert.Less(t, s.CurrentIndex, r.Len())
}
