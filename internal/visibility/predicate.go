package visibility

import "github.com/spec-kit/lead-crm-service/internal/domain"

// Predicate decides whether a single lead is visible.
type Predicate func(domain.Lead) bool

// All matches every lead.
func All() Predicate {
	return func(domain.Lead) bool { return true }
}

// None matches no lead.
func None() Predicate {
	return func(domain.Lead) bool { return false }
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(l domain.Lead) bool {
		for _, p := range preds {
			if p(l) {
				return true
			}
		}
		return false
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(l domain.Lead) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// AssignedToBranch matches leads assigned to the given branch.
func AssignedToBranch(branchID string) Predicate {
	return func(l domain.Lead) bool {
		return branchID != "" && l.BranchID() == branchID
	}
}

// CreatedByActor matches leads the given actor personally created.
func CreatedByActor(actorID string) Predicate {
	return func(l domain.Lead) bool {
		return actorID != "" && l.CreatedByID() == actorID
	}
}
