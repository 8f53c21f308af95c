package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/persist"
	"github.com/felixgeelhaar/stepper/internal/domain/schema"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
)

// DefaultSession is the session used when none is given.
const DefaultSession = "default"

// ErrInvalidStatus is returned by SetStatus for an unknown status name.
var ErrInvalidStatus = errors.New("invalid step status")

// Session is one persisted stepper of a definition.
type Session struct {
	ID      string
	Stepper *stepper.Stepper
	// Restored is true when the session was seeded from a stored snapshot.
	Restored bool

	flow    *definition.Flow
	persist *persist.Manager
}

// StepView is the read model of one step.
type StepView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Requires    []string      `json:"requires,omitempty"`
	Status      step.Status   `json:"status"`
	UIStatus    step.UIStatus `json:"uiStatus"`
	Skipped     bool          `json:"skipped"`
	Reachable   bool          `json:"reachable"`
	Metadata    any           `json:"metadata"`
}

// Status is the read model of a session.
type Status struct {
	Name    string          `json:"name"`
	Session string          `json:"session"`
	Mode    navigation.Mode `json:"mode"`
	Current string          `json:"current"`
	Index   int             `json:"index"`
	Total   int             `json:"total"`
	IsFirst bool            `json:"isFirst"`
	IsLast  bool            `json:"isLast"`
	CanNext bool            `json:"canNext"`
	CanPrev bool            `json:"canPrev"`
	CanUndo bool            `json:"canUndo"`
	CanRedo bool            `json:"canRedo"`
	Steps   []StepView      `json:"steps"`
}

// Flow returns the definition the session runs.
func (s *Session) Flow() *definition.Flow {
	return s.flow
}

// Key returns the storage key of the session snapshot.
func (s *Session) Key() string {
	return s.persist.Key()
}

// Status reports the current position and every step.
func (s *Session) Status() Status {
	st := s.Stepper
	state := st.State()

	views := make([]StepView, 0, len(st.All()))
	for _, item := range st.All() {
		views = append(views, StepView{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Icon:        item.Icon,
			Requires:    item.Requires,
			Status:      state.Statuses[item.ID],
			UIStatus:    st.UIStatus(item.ID),
			Skipped:     navigation.ShouldSkipStep(item, state.Metadata),
			Reachable:   st.CanGoTo(item.ID),
			Metadata:    state.Metadata[item.ID],
		})
	}

	return Status{
		Name:    s.flow.Name(),
		Session: s.ID,
		Mode:    st.Mode(),
		Current: st.Current().ID,
		Index:   st.CurrentIndex(),
		Total:   len(views),
		IsFirst: st.IsFirst(),
		IsLast:  st.IsLast(),
		CanNext: st.CanNext(),
		CanPrev: st.CanPrev(),
		CanUndo: st.CanUndo(),
		CanRedo: st.CanRedo(),
		Steps:   views,
	}
}

// Next moves to the next reachable step.
func (s *Session) Next(ctx context.Context) (bool, error) {
	return s.Stepper.Next(ctx)
}

// Prev moves to the previous reachable step.
func (s *Session) Prev(ctx context.Context) (bool, error) {
	return s.Stepper.Prev(ctx)
}

// GoTo moves to step id.
func (s *Session) GoTo(ctx context.Context, id string) (bool, error) {
	return s.Stepper.GoTo(ctx, id)
}

// SetMetadata validates value against the step schema and stores it on
// success. The step status follows the validation outcome.
func (s *Session) SetMetadata(ctx context.Context, id string, value any) (schema.ValidationResult, error) {
	return s.Stepper.Validate(ctx, id, value)
}

// SetStatus forces the status of step id.
func (s *Session) SetStatus(ctx context.Context, id, status string) error {
	if _, ok := s.Stepper.Get(id); !ok {
		return step.NotFoundError(id)
	}
	st := step.Status(strings.ToLower(status))
	if !st.Valid() {
		return fmt.Errorf("%w %q (use idle, pending, success or error)", ErrInvalidStatus, status)
	}
	s.Stepper.SetStatus(ctx, id, st)
	return nil
}

// Complete marks step id successful.
func (s *Session) Complete(ctx context.Context, id string) (bool, error) {
	return s.Stepper.Complete(ctx, id)
}

// Undo steps back in history.
func (s *Session) Undo(ctx context.Context) bool {
	return s.Stepper.Undo(ctx)
}

// Redo steps forward in history.
func (s *Session) Redo(ctx context.Context) bool {
	return s.Stepper.Redo(ctx)
}

// Reset returns the session to its initial step, statuses and metadata.
func (s *Session) Reset(ctx context.Context) bool {
	return s.Stepper.Reset(ctx)
}

// Clear removes the stored snapshot. The in-memory stepper is untouched.
func (s *Session) Clear(ctx context.Context) {
	s.persist.Clear(ctx)
}
