package stepper

import "context"

type scopeKey struct {
	def *Definition
}

// Scoped creates a Stepper and returns a context carrying it. Scopes of the
// same definition nest: FromContext returns the innermost one, and no two
// scopes share state.
func (d *Definition) Scoped(ctx context.Context, opts ...Option) (context.Context, *Stepper) {
	s := d.New(opts...)
	return context.WithValue(ctx, scopeKey{def: d}, s), s
}

// FromContext returns the innermost Stepper of def carried by ctx.
func FromContext(ctx context.Context, def *Definition) (*Stepper, bool) {
	s, ok := ctx.Value(scopeKey{def: def}).(*Stepper)
	return s, ok
}
