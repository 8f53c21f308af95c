package navigation

import "github.com/felixgeelhaar/stepper/internal/domain/step"

// Reduce applies a to s and returns the resulting state. It is pure: s is
// never modified, and s itself is returned when the action does not apply.
func Reduce(s *State, a Action, r *step.Registry, cfg Config) *State {
	if s == nil || r == nil || a == nil {
		return s
	}

	switch a := a.(type) {
	case GoTo:
		return reduceGoTo(s, a, r, cfg)
	case SetStatus:
		return reduceSetStatus(s, a, r)
	case SetMetadata:
		if !r.Has(a.StepID) {
			return s
		}
		next := s.clone()
		next.Metadata[a.StepID] = a.Metadata
		return next
	case ResetMetadata:
		return reduceResetMetadata(s, a, r)
	case Reset:
		return reduceReset(s, a, r, cfg)
	case Undo:
		if !CanUndo(s) {
			return s
		}
		return moveInHistory(s, s.HistoryIndex-1)
	case Redo:
		if !CanRedo(s) {
			return s
		}
		return moveInHistory(s, s.HistoryIndex+1)
	case Initialize:
		return reduceInitialize(s, a, r, cfg)
	default:
		return s
	}
}

func reduceGoTo(s *State, a GoTo, r *step.Registry, cfg Config) *State {
	if a.Index < 0 || a.Index >= r.Len() || a.Index == s.CurrentIndex {
		return s
	}
	if cfg.mode() == ModeLinear && !CanNavigate(r, s, a.Index, ModeLinear) {
		return s
	}

	next := s.clone()
	history := append(next.History[:s.HistoryIndex+1], newEntry(r, a.Index, cfg))
	if cfg.MaxHistory > 0 && len(history) > cfg.MaxHistory {
		history = history[len(history)-cfg.MaxHistory:]
	}

	next.History = history
	next.HistoryIndex = len(history) - 1
	next.CurrentIndex = a.Index
	return next
}

func reduceSetStatus(s *State, a SetStatus, r *step.Registry) *State {
	if !r.Has(a.StepID) || !a.Status.Valid() || s.Statuses[a.StepID] == a.Status {
		return s
	}
	next := s.clone()
	next.Statuses[a.StepID] = a.Status
	return next
}

func reduceResetMetadata(s *State, a ResetMetadata, r *step.Registry) *State {
	next := s.clone()
	switch {
	case a.KeepInitial && a.InitialMetadata != nil:
		next.Metadata = completeMetadata(r, a.InitialMetadata)
	case a.KeepInitial:
		next.Metadata = completeMetadata(r, s.InitialMetadata)
	default:
		next.Metadata = completeMetadata(r, nil)
	}
	return next
}

func reduceReset(s *State, a Reset, r *step.Registry, cfg Config) *State {
	index := a.InitialIndex
	if index < 0 || index >= r.Len() {
		index = 0
	}

	next := s.clone()
	next.CurrentIndex = index
	next.Metadata = completeMetadata(r, a.InitialMetadata)
	next.Statuses = completeStatuses(r, a.InitialStatuses)
	next.History = []HistoryEntry{newEntry(r, index, cfg)}
	next.HistoryIndex = 0
	return next
}

func reduceInitialize(s *State, a Initialize, r *step.Registry, cfg Config) *State {
	index := r.Index(a.Payload.Step)
	if index < 0 {
		index = s.CurrentIndex
	}

	next := s.clone()
	next.CurrentIndex = index
	next.Metadata = completeMetadata(r, a.Payload.Metadata)
	next.Statuses = completeStatuses(r, a.Payload.Statuses)
	next.History = []HistoryEntry{newEntry(r, index, cfg)}
	next.HistoryIndex = 0
	next.Initialized = true
	return next
}

func moveInHistory(s *State, historyIndex int) *State {
	next := s.clone()
	next.HistoryIndex = historyIndex
	next.CurrentIndex = next.History[historyIndex].Index
	return next
}
