package navigation

import "github.com/felixgeelhaar/stepper/internal/domain/step"

// Kind names an action type.
type Kind string

// Action kinds.
const (
	KindGoTo          Kind = "GO_TO"
	KindSetStatus     Kind = "SET_STATUS"
	KindSetMetadata   Kind = "SET_METADATA"
	KindResetMetadata Kind = "RESET_METADATA"
	KindReset         Kind = "RESET"
	KindUndo          Kind = "UNDO"
	KindRedo          Kind = "REDO"
	KindInitialize    Kind = "INITIALIZE"
)

// Action is a discrete change request handled by Reduce.
type Action interface {
	Kind() Kind
}

// GoTo moves to Index and records it in the history.
type GoTo struct {
	Index int
}

// SetStatus overwrites the status of one step.
type SetStatus struct {
	StepID string
	Status step.Status
}

// SetMetadata replaces the metadata of one step.
type SetMetadata struct {
	StepID   string
	Metadata any
}

// ResetMetadata restores metadata. With KeepInitial it restores
// InitialMetadata when given, else the snapshot recorded at creation;
// otherwise every entry becomes nil.
type ResetMetadata struct {
	KeepInitial     bool
	InitialMetadata step.Metadata
}

// Reset restores position, metadata and statuses and collapses the history.
type Reset struct {
	InitialIndex    int
	InitialMetadata step.Metadata
	InitialStatuses step.Statuses
}

// Undo moves one entry back in the history.
type Undo struct{}

// Redo moves one entry forward in the history.
type Redo struct{}

// Initialize seeds the state once an asynchronous loader has resolved.
type Initialize struct {
	Payload Payload
}

// Kind implements Action.
func (GoTo) Kind() Kind { return KindGoTo }

// Kind implements Action.
func (SetStatus) Kind() Kind { return KindSetStatus }

// Kind implements Action.
func (SetMetadata) Kind() Kind { return KindSetMetadata }

// Kind implements Action.
func (ResetMetadata) Kind() Kind { return KindResetMetadata }

// Kind implements Action.
func (Reset) Kind() Kind { return KindReset }

// Kind implements Action.
func (Undo) Kind() Kind { return KindUndo }

// Kind implements Action.
func (Redo) Kind() Kind { return KindRedo }

// Kind implements Action.
func (Initialize) Kind() Kind { return KindInitialize }
