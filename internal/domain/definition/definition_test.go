package definition_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepper/internal/adapters/storage"
	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/persist"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
	"github.com/felixgeelhaar/stepper/internal/testutil"
)

func TestLoad_YAMLFixture(t *testing.T) {
	t.Parallel()

	flow, err := definition.Load(testutil.WriteFixture(t, "checkout.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "checkout", flow.Name())
	assert.Equal(t, navigation.ModeLinear, flow.Mode)
	assert.Equal(t, 24*time.Hour, flow.TTL)
	assert.Equal(t, persist.FormatJSON, flow.Codec.Name())
	assert.Equal(t, "checkout:abc", flow.StorageKey("abc"))

	steps := flow.Definition.Utils()
	assert.Equal(t, []string{"cart", "gift-wrap", "shipping", "payment", "review"}, steps.IDs())

	cart, _ := steps.Get("cart")
	assert.Equal(t, "Cart", cart.Title)
	assert.Equal(t, "🛒", cart.Icon)
	require.NotNil(t, cart.Schema)

	wrap, _ := steps.Get("gift-wrap")
	assert.Equal(t, "Gift Wrap", wrap.Title, "title derived from id")
	assert.Equal(t, []string{"cart"}, wrap.Requires)
	require.NotNil(t, wrap.Skip)
}

func TestLoad_TOMLFixture(t *testing.T) {
	t.Parallel()

	flow, err := definition.Load(testutil.WriteFixture(t, "checkout.toml"))
	require.NoError(t, err)

	assert.Equal(t, navigation.ModeFree, flow.Mode)
	assert.Equal(t, persist.FormatYAML, flow.Codec.Name())
	assert.Zero(t, flow.TTL)
	assert.Equal(t, "checkout-toml:s1", flow.StorageKey("s1"))
	assert.Equal(t, []string{"cart", "payment", "review"}, flow.Definition.Utils().IDs())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			code: definition.ErrCodeNotFound,
		},
		{
			name: "unknown extension",
			path: func(t *testing.T) string { return testutil.WriteTempFile(t, t.TempDir(), "flow.json", "{}") },
			code: definition.ErrCodeUnsupportedFormat,
		},
		{
			name: "yaml syntax",
			path: func(t *testing.T) string {
				return testutil.WriteTempFile(t, t.TempDir(), "flow.yaml", "steps: [\n")
			},
			code: definition.ErrCodeParse,
		},
		{
			name: "unknown key",
			path: func(t *testing.T) string {
				return testutil.WriteTempFile(t, t.TempDir(), "flow.yml", "apiVersion: v1\nname: x\nstepz: []\n")
			},
			code: definition.ErrCodeParse,
		},
		{
			name: "toml syntax",
			path: func(t *testing.T) string {
				return testutil.WriteTempFile(t, t.TempDir(), "flow.toml", "name = \n")
			},
			code: definition.ErrCodeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := definition.Load(tt.path(t))
			require.Error(t, err)
			assert.True(t, definition.IsUserError(err, tt.code), "got %v", err)
		})
	}
}

func TestLoad_InvalidFixtureReportsEveryProblem(t *testing.T) {
	t.Parallel()

	_, err := definition.Load(testutil.WriteFixture(t, "invalid.yaml"))
	require.Error(t, err)

	var list *definition.ErrorList
	require.True(t, errors.As(err, &list))
	assert.Equal(t, 2, list.Len())
	assert.True(t, definition.IsUserError(err, definition.ErrCodeUnsupportedVersion))
	assert.True(t, definition.IsUserError(err, definition.ErrCodeStepInvalid))
	assert.ErrorIs(t, err, step.ErrDuplicateStep)
	assert.Contains(t, list.Format(), "Found 2 error(s)")
}

func TestCompile_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   string
		code  string
		field string
	}{
		{"no api version", "name: x\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "apiVersion"},
		{"api version v2", "apiVersion: v2\nname: x\nsteps: [{id: a}]\n", definition.ErrCodeUnsupportedVersion, "apiVersion"},
		{"no name", "apiVersion: v1\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "name"},
		{"bad mode", "apiVersion: v1\nname: x\nmode: wizard\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "mode"},
		{"negative history", "apiVersion: v1\nname: x\nmaxHistory: -1\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "maxHistory"},
		{"bad ttl", "apiVersion: v1\nname: x\npersist: {ttl: soon}\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "persist.ttl"},
		{"bad format", "apiVersion: v1\nname: x\npersist: {format: xml}\nsteps: [{id: a}]\n", definition.ErrCodeValidationFailed, "persist.format"},
		{"no steps", "apiVersion: v1\nname: x\nsteps: []\n", definition.ErrCodeStepInvalid, "steps"},
		{"bad id", "apiVersion: v1\nname: x\nsteps: [{id: -a}]\n", definition.ErrCodeStepInvalid, "steps[0].id"},
		{"unknown requires", "apiVersion: v1\nname: x\nsteps: [{id: a, requires: [b]}]\n", definition.ErrCodeStepInvalid, "steps[0].requires"},
		{"unknown initial step", "apiVersion: v1\nname: x\ninitialStep: b\nsteps: [{id: a}]\n", definition.ErrCodeStepInvalid, "initialStep"},
		{"bad schema", "apiVersion: v1\nname: x\nsteps: [{id: a, schema: {type: 12}}]\n", definition.ErrCodeSchemaInvalid, "steps[0].schema"},
		{"unknown skip step", "apiVersion: v1\nname: x\nsteps: [{id: a, skipWhen: {step: b, equals: 1}}]\n", definition.ErrCodeStepInvalid, "steps[0].skipWhen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := definition.Parse([]byte(tt.doc), definition.FormatYAML, "test.yaml")
			require.NoError(t, err)

			_, err = definition.Compile(doc)
			require.Error(t, err)
			ue := definition.GetUserError(err)
			require.NotNil(t, ue)
			assert.Equal(t, tt.code, ue.Code)
			assert.Equal(t, tt.field, ue.Context)
			assert.NotEmpty(t, ue.Suggestion)
		})
	}
}

func TestCompile_APIVersionForms(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"v1", "1", "v1.2", "1.0.0"} {
		doc := &definition.Document{APIVersion: v, Name: "x", Steps: []definition.StepSpec{{ID: "a"}}}
		_, err := definition.Compile(doc)
		assert.NoError(t, err, v)
	}
}

func TestCompile_BuilderRoundTrip(t *testing.T) {
	t.Parallel()

	def := testutil.NewDefinitionBuilder("signup").
		WithMode("linear").
		WithInitialStep("profile").
		WithPersist("signup-flow", "30m").
		WithStep("account").WithRequiredFields("email").
		WithStep("profile", "account").WithTitle("Your profile").
		WithStep("team", "account").WithSkipWhen("account", "solo", "true").
		Build()

	for _, tc := range []struct {
		format string
		text   string
	}{
		{definition.FormatYAML, def.ToYAML()},
		{definition.FormatTOML, def.ToTOML()},
	} {
		doc, err := definition.Parse([]byte(tc.text), tc.format, "builder")
		require.NoError(t, err, tc.format)
		flow, err := definition.Compile(doc)
		require.NoError(t, err, tc.format)

		assert.Equal(t, 30*time.Minute, flow.TTL)
		assert.Equal(t, "signup-flow:x", flow.StorageKey("x"))

		s := flow.Definition.New(flow.Options()...)
		testutil.AssertAt(t, s, "profile")
		assert.Equal(t, navigation.ModeLinear, s.Mode())

		profile, _ := flow.Definition.Utils().Get("profile")
		assert.Equal(t, "Your profile", profile.Title)
	}
}

func TestCompile_SkipWhen(t *testing.T) {
	t.Parallel()

	flow, err := definition.Load(testutil.WriteFixture(t, "checkout.yaml"))
	require.NoError(t, err)
	wrap, _ := flow.Definition.Utils().Get("gift-wrap")

	assert.False(t, wrap.Skip(step.Metadata{}))
	assert.False(t, wrap.Skip(step.Metadata{"cart": "not a map"}))
	assert.False(t, wrap.Skip(step.Metadata{"cart": map[string]any{"express": false}}))
	assert.True(t, wrap.Skip(step.Metadata{"cart": map[string]any{"express": true}}))

	doc := &definition.Document{
		APIVersion: "v1",
		Name:       "x",
		Steps: []definition.StepSpec{
			{ID: "a"},
			{ID: "b", SkipWhen: &definition.SkipSpec{Step: "a", Equals: map[string]any{"n": 1}}},
		},
	}
	flow, err = definition.Compile(doc)
	require.NoError(t, err)
	b, _ := flow.Definition.Utils().Get("b")
	assert.True(t, b.Skip(step.Metadata{"a": map[string]any{"n": 1.0}}), "numbers compare by value")
	assert.False(t, b.Skip(step.Metadata{"a": map[string]any{"n": 2.0}}))
}

func TestCompile_SchemaGatesValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	flow, err := definition.Load(testutil.WriteFixture(t, "checkout.yaml"))
	require.NoError(t, err)

	s := flow.Definition.New(flow.Options()...)

	result, err := s.Validate(ctx, "cart", map[string]any{"items": 0})
	require.NoError(t, err)
	assert.False(t, result.Success)
	testutil.AssertStatus(t, s, "cart", step.StatusError)

	result, err = s.Validate(ctx, "cart", map[string]any{"items": 2})
	require.NoError(t, err)
	assert.True(t, result.Success)
	testutil.AssertStatus(t, s, "cart", step.StatusSuccess)
}

func TestFlow_Persistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	flow, err := definition.Load(testutil.WriteFixture(t, "checkout.toml"))
	require.NoError(t, err)

	store := storage.NewMemory()
	m, err := flow.Persistence(store, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "checkout-toml:s1", m.Key())

	now := time.UnixMilli(1_700_000_000_000)
	s := flow.Definition.New(append(flow.Options(),
		stepper.WithPersistence(m),
		stepper.WithClock(func() time.Time { return now }),
	)...)
	require.NoError(t, s.Initialize(ctx))
	_, err = s.Complete(ctx, "cart")
	require.NoError(t, err)
	moved, err := s.GoTo(ctx, "review")
	require.NoError(t, err)
	require.True(t, moved)

	raw, ok, err := store.GetItem(ctx, "checkout-toml:s1")
	require.NoError(t, err)
	require.True(t, ok)
	testutil.AssertYAMLEquals(t, `
stepId: review
timestamp: 1700000000000
metadata:
  cart: null
  payment: null
  review: null
statuses:
  cart: success
  payment: idle
  review: idle
`, raw, "yaml codec from the document")
}
