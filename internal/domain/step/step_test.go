package step

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/stepper/internal/domain/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"cart", nil},
		{"shipping-address", nil},
		{"checkout:payment", nil},
		{"v1.2/review_step", nil},
		{"", ErrEmptyID},
		{"   ", ErrEmptyID},
		{"-leading", ErrInvalidID},
		{"has space", ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			err := ValidateID(tt.id)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusIdle, StatusPending, StatusSuccess, StatusError} {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, Status("done").Valid())

	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusIdle.IsTerminal())
}

func TestUIStatusAt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UISuccess, UIStatusAt(0, 1))
	assert.Equal(t, UIActive, UIStatusAt(1, 1))
	assert.Equal(t, UIInactive, UIStatusAt(2, 1))
}

func TestMetadataAndStatusesClone(t *testing.T) {
	t.Parallel()

	m := Metadata{"cart": map[string]any{"items": 2}}
	mc := m.Clone()
	mc["cart"] = nil
	assert.NotNil(t, m["cart"])

	s := Statuses{"cart": StatusIdle}
	sc := s.Clone()
	sc["cart"] = StatusSuccess
	assert.Equal(t, StatusIdle, s["cart"])
}

func TestValidateMetadata(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	plain := Step{ID: "plain"}
	res := ValidateMetadata(ctx, plain, 42)
	assert.True(t, res.Success)
	assert.Equal(t, 42, res.Data)

	positive := Step{ID: "qty", Schema: schema.Func(func(v any) schema.Result {
		if n, ok := v.(int); ok && n > 0 {
			return schema.Result{Value: n}
		}
		return schema.Result{Issues: []schema.Issue{{Message: "must be positive"}}}
	})}

	assert.True(t, ValidateMetadata(ctx, positive, 3).Success)

	res = ValidateMetadata(ctx, positive, -1)
	assert.False(t, res.Success)
	require.Len(t, res.Error, 1)
	assert.Equal(t, "must be positive", res.Error[0].Message)
}
