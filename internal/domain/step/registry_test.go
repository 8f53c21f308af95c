package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(
		Step{ID: "cart", Title: "Cart"},
		Step{ID: "shipping", Title: "Shipping", Requires: []string{"cart"}},
		Step{ID: "payment", Title: "Payment", Requires: []string{"shipping"}},
	)
	require.NoError(t, err)
	return r
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		steps   []Step
		wantErr error
	}{
		{"empty", nil, ErrEmptyRegistry},
		{"invalid id", []Step{{ID: "bad id"}}, ErrInvalidID},
		{"duplicate", []Step{{ID: "a"}, {ID: "a"}}, ErrDuplicateStep},
		{"missing dependency", []Step{{ID: "a", Requires: []string{"ghost"}}}, ErrMissingDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRegistry(tt.steps...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMustNewRegistry_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNewRegistry() })
	assert.NotPanics(t, func() { MustNewRegistry(Step{ID: "only"}) })
}

func TestRegistry_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	requires := []string{"a"}
	steps := []Step{{ID: "a"}, {ID: "b", Requires: requires}}
	r, err := NewRegistry(steps...)
	require.NoError(t, err)

	steps[0].ID = "mutated"
	requires[0] = "mutated"

	first := r.First()
	assert.Equal(t, "a", first.ID)
	b, _ := r.Get("b")
	assert.Equal(t, []string{"a"}, b.Requires)

	all := r.All()
	all[0].ID = "changed"
	assert.Equal(t, "a", r.First().ID)
}

func TestRegistry_Queries(t *testing.T) {
	t.Parallel()

	r := checkoutRegistry(t)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"cart", "shipping", "payment"}, r.IDs())
	assert.True(t, r.Has("payment"))
	assert.False(t, r.Has("refund"))

	s, ok := r.Get("shipping")
	require.True(t, ok)
	assert.Equal(t, "Shipping", s.Title)

	_, ok = r.Get("refund")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Index("payment"))
	assert.Equal(t, -1, r.Index("refund"))

	s, ok = r.ByIndex(0)
	require.True(t, ok)
	assert.Equal(t, "cart", s.ID)
	_, ok = r.ByIndex(3)
	assert.False(t, ok)
	_, ok = r.ByIndex(-1)
	assert.False(t, ok)

	assert.Equal(t, "cart", r.First().ID)
	assert.Equal(t, "payment", r.Last().ID)
}

func TestRegistry_Neighbours(t *testing.T) {
	t.Parallel()

	r := checkoutRegistry(t)

	next, ok := r.Next("cart")
	require.True(t, ok)
	assert.Equal(t, "shipping", next.ID)

	_, ok = r.Next("payment")
	assert.False(t, ok)

	prev, ok := r.Prev("payment")
	require.True(t, ok)
	assert.Equal(t, "shipping", prev.ID)

	_, ok = r.Prev("cart")
	assert.False(t, ok)

	_, ok = r.Next("refund")
	assert.False(t, ok)

	n := r.Neighbors("shipping")
	assert.Equal(t, "cart", n.Prev.ID)
	assert.Equal(t, "payment", n.Next.ID)

	n = r.Neighbors("cart")
	assert.True(t, n.Prev.IsZero())
	assert.Equal(t, "shipping", n.Next.ID)
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := NotFoundError("X")
	assert.ErrorIs(t, err, ErrStepNotFound)
	assert.Contains(t, err.Error(), `step with id "X" not found`)
}
