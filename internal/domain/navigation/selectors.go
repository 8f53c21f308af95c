package navigation

import "github.com/felixgeelhaar/stepper/internal/domain/step"

// CanNavigate reports whether target is reachable from s.
//
// In ModeFree the dependencies of every step up to and including target must
// be satisfied. ModeLinear always allows moving back; moving forward is
// allowed one step at a time from a step with StatusSuccess, where steps
// skipped by their predicate do not count as a step, and the dependency rule
// of ModeFree applies as well.
func CanNavigate(r *step.Registry, s *State, target int, mode Mode) bool {
	if r == nil || s == nil || target < 0 || target >= r.Len() {
		return false
	}

	if mode == ModeLinear {
		if target <= s.CurrentIndex {
			return true
		}
		current, _ := r.ByIndex(s.CurrentIndex)
		if s.Statuses[current.ID] != step.StatusSuccess {
			return false
		}
		for i := s.CurrentIndex + 1; i < target; i++ {
			between, _ := r.ByIndex(i)
			if !ShouldSkipStep(between, s.Metadata) {
				return false
			}
		}
	}

	for i := 0; i <= target; i++ {
		st, _ := r.ByIndex(i)
		if !AreDependenciesSatisfied(st, s.Statuses) {
			return false
		}
	}
	return true
}

// CanUndo reports whether there is an earlier history entry.
func CanUndo(s *State) bool {
	return s != nil && s.HistoryIndex > 0
}

// CanRedo reports whether there is a later history entry.
func CanRedo(s *State) bool {
	return s != nil && s.HistoryIndex < len(s.History)-1
}
