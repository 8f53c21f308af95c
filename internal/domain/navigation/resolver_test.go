package navigation

import (
	"testing"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chained(t *testing.T) *step.Registry {
	t.Helper()
	r, err := step.NewRegistry(
		step.Step{ID: "A"},
		step.Step{ID: "B", Requires: []string{"A"}},
		step.Step{ID: "C", Requires: []string{"B"}},
	)
	require.NoError(t, err)
	return r
}

func TestAreDependenciesSatisfied(t *testing.T) {
	t.Parallel()

	none := step.Step{ID: "x"}
	assert.True(t, AreDependenciesSatisfied(none, nil))

	both := step.Step{ID: "y", Requires: []string{"a", "b"}}
	assert.False(t, AreDependenciesSatisfied(both, step.Statuses{"a": step.StatusSuccess}))
	assert.False(t, AreDependenciesSatisfied(both, step.Statuses{"a": step.StatusSuccess, "b": step.StatusPending}))
	assert.True(t, AreDependenciesSatisfied(both, step.Statuses{"a": step.StatusSuccess, "b": step.StatusSuccess}))
}

func TestShouldSkipStep_EvaluatedEveryCall(t *testing.T) {
	t.Parallel()

	s := step.Step{ID: "gift", Skip: func(m step.Metadata) bool {
		return m["cart"] == "no-gift"
	}}

	assert.False(t, ShouldSkipStep(step.Step{ID: "plain"}, nil))
	assert.False(t, ShouldSkipStep(s, step.Metadata{"cart": nil}))
	assert.True(t, ShouldSkipStep(s, step.Metadata{"cart": "no-gift"}))
}

func TestFindNextValidStepIndex(t *testing.T) {
	t.Parallel()

	always := func(step.Metadata) bool { return true }
	r, err := step.NewRegistry(
		step.Step{ID: "A"},
		step.Step{ID: "B", Skip: always},
		step.Step{ID: "C"},
		step.Step{ID: "D", Skip: always},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, FindNextValidStepIndex(r, 0, Forward, nil))
	assert.Equal(t, 0, FindNextValidStepIndex(r, 2, Backward, nil))
	assert.Equal(t, -1, FindNextValidStepIndex(r, 2, Forward, nil), "only skipped steps remain")
	assert.Equal(t, -1, FindNextValidStepIndex(r, 0, Backward, nil))
	assert.Equal(t, -1, FindNextValidStepIndex(r, 0, 2, nil))
}

func TestCanNavigate_DependencyGating(t *testing.T) {
	t.Parallel()

	r := chained(t)

	for _, mode := range []Mode{ModeFree, ModeLinear} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()
			cfg := Config{Mode: mode}
			s := NewInitialState(r, cfg)

			assert.False(t, CanNavigate(r, s, 1, mode))

			s = Reduce(s, SetStatus{StepID: "A", Status: step.StatusSuccess}, r, cfg)
			assert.True(t, CanNavigate(r, s, 1, mode))
			assert.False(t, CanNavigate(r, s, 2, mode))

			s = Reduce(s, GoTo{Index: 1}, r, cfg)
			require.Equal(t, 1, s.CurrentIndex)
			assert.False(t, CanNavigate(r, s, 2, mode))

			s = Reduce(s, SetStatus{StepID: "B", Status: step.StatusSuccess}, r, cfg)
			assert.True(t, CanNavigate(r, s, 2, mode))
		})
	}
}

func TestCanNavigate_LinearBoundary(t *testing.T) {
	t.Parallel()

	r := threeSteps(t)
	cfg := Config{Mode: ModeLinear}
	s := NewInitialState(r, cfg)

	assert.False(t, CanNavigate(r, s, 2, ModeLinear))
	assert.False(t, CanNavigate(r, s, 1, ModeLinear))
	assert.True(t, CanNavigate(r, s, 2, ModeFree))

	s = Reduce(s, SetStatus{StepID: "first", Status: step.StatusSuccess}, r, cfg)
	assert.True(t, CanNavigate(r, s, 1, ModeLinear))
	assert.False(t, CanNavigate(r, s, 2, ModeLinear), "only one step at a time")

	s = Reduce(s, GoTo{Index: 1}, r, cfg)
	assert.True(t, CanNavigate(r, s, 0, ModeLinear), "backward is always allowed")
	assert.False(t, CanNavigate(r, s, 2, ModeLinear))

	s = Reduce(s, SetStatus{StepID: "second", Status: step.StatusSuccess}, r, cfg)
	assert.True(t, CanNavigate(r, s, 2, ModeLinear))
}

func TestCanNavigate_LinearOverSkippedSteps(t *testing.T) {
	t.Parallel()

	r, err := step.NewRegistry(
		step.Step{ID: "A"},
		step.Step{ID: "B", Skip: func(m step.Metadata) bool { return m["A"] == "skip-b" }},
		step.Step{ID: "C"},
	)
	require.NoError(t, err)
	cfg := Config{Mode: ModeLinear, InitialStatuses: step.Statuses{"A": step.StatusSuccess}}
	s := NewInitialState(r, cfg)

	assert.False(t, CanNavigate(r, s, 2, ModeLinear))

	s = Reduce(s, SetMetadata{StepID: "A", Metadata: "skip-b"}, r, cfg)
	assert.True(t, CanNavigate(r, s, 2, ModeLinear))
}

func TestCanNavigate_OutOfRange(t *testing.T) {
	t.Parallel()

	r := threeSteps(t)
	s := NewInitialState(r, Config{})

	assert.False(t, CanNavigate(r, s, -1, ModeFree))
	assert.False(t, CanNavigate(r, s, 3, ModeFree))
	assert.False(t, CanNavigate(nil, s, 0, ModeFree))
}
