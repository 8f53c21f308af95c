package step

// Status is the lifecycle state of a step.
type Status string

const (
	// StatusIdle means the step has not been worked on.
	StatusIdle Status = "idle"
	// StatusPending means the step is validating or loading.
	StatusPending Status = "pending"
	// StatusSuccess means the step is complete.
	StatusSuccess Status = "success"
	// StatusError means validation or a transition failed.
	StatusError Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusPending, StatusSuccess, StatusError:
		return true
	}
	return false
}

// IsTerminal reports whether no further work is expected for the step.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Statuses maps step IDs to their status.
type Statuses map[string]Status

// Clone returns a copy of s.
func (s Statuses) Clone() Statuses {
	out := make(Statuses, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UIStatus is the rendering tri-state derived from a step's position
// relative to the current step. It is never stored.
type UIStatus string

const (
	// UIActive is the current step.
	UIActive UIStatus = "active"
	// UISuccess is any step before the current one.
	UISuccess UIStatus = "success"
	// UIInactive is any step after the current one.
	UIInactive UIStatus = "inactive"
)

// UIStatusAt derives the UI status of index given the current index.
func UIStatusAt(index, current int) UIStatus {
	switch {
	case index == current:
		return UIActive
	case index < current:
		return UISuccess
	default:
		return UIInactive
	}
}
