package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
)

func TestAssertFileContains(t *testing.T) {
	t.Parallel()

	path := WriteTempFile(t, t.TempDir(), "test.txt", "hello world")

	mockT := &testing.T{}
	AssertFileContains(mockT, path, "hello")
	assert.False(t, mockT.Failed())
}

func TestAssertYAMLEquals(t *testing.T) {
	t.Parallel()

	mockT := &testing.T{}
	AssertYAMLEquals(mockT, "a: 1\nb: [x]\n", "b:\n  - x\na: 1\n")
	assert.False(t, mockT.Failed())
}

func TestStepperAssertions(t *testing.T) {
	t.Parallel()

	def := stepper.MustDefine(CheckoutSteps()...)
	s := def.New()

	mockT := &testing.T{}
	AssertAt(mockT, s, "cart")
	AssertStatus(mockT, s, "cart", step.StatusIdle)
	AssertStateComplete(mockT, def.Steps, s.State())
	assert.False(t, mockT.Failed())

	AssertStateComplete(mockT, def.Steps, navigation.NewInitialState(def.Steps, navigation.Config{}))
	assert.False(t, mockT.Failed())

	_, _ = s.Next(context.Background())
	AssertAt(mockT, s, "shipping")
	assert.False(t, mockT.Failed())
}
