package navigation

import "github.com/felixgeelhaar/stepper/internal/domain/step"

// Scan directions for FindNextValidStepIndex.
const (
	Forward  = 1
	Backward = -1
)

// AreDependenciesSatisfied reports whether every step listed in s.Requires
// has StatusSuccess. It gates navigation; it never reorders steps.
func AreDependenciesSatisfied(s step.Step, statuses step.Statuses) bool {
	for _, dep := range s.Requires {
		if statuses[dep] != step.StatusSuccess {
			return false
		}
	}
	return true
}

// ShouldSkipStep evaluates the step's skip predicate against metadata. It is
// evaluated on every call because metadata changes between navigations.
func ShouldSkipStep(s step.Step, metadata step.Metadata) bool {
	return s.Skip != nil && s.Skip(metadata)
}

// FindNextValidStepIndex scans from from+direction in direction and returns
// the first index whose step is not skipped, or -1 when the scan leaves the
// registry. Dependencies are not considered here; see CanNavigate.
func FindNextValidStepIndex(r *step.Registry, from, direction int, metadata step.Metadata) int {
	if direction != Forward && direction != Backward {
		return -1
	}
	for i := from + direction; i >= 0 && i < r.Len(); i += direction {
		s, _ := r.ByIndex(i)
		if !ShouldSkipStep(s, metadata) {
			return i
		}
	}
	return -1
}
