// Package visibility implements the rule-driven lead access layer: a
// policy-dispatched predicate over the lead collection, the matching
// single-record access check, and field-level masking.
package visibility

import "github.com/spec-kit/lead-crm-service/internal/domain"

// AdminDirectory answers whether an actor id belongs to an admin. The
// admin_leads_visible_to_all override needs it to classify lead creators.
type AdminDirectory interface {
	IsAdmin(actorID string) bool
}

// AdminIDSet is an AdminDirectory backed by a fixed id set.
type AdminIDSet map[string]struct{}

// NewAdminIDSet collects the ids of the given staff members that hold the
// admin role.
func NewAdminIDSet(members []domain.StaffMember) AdminIDSet {
	set := make(AdminIDSet)
	for _, m := range members {
		if m.Role == domain.RoleAdmin {
			set[m.ID] = struct{}{}
		}
	}
	return set
}

// IsAdmin reports membership.
func (s AdminIDSet) IsAdmin(actorID string) bool {
	_, ok := s[actorID]
	return ok
}

// Engine evaluates lead visibility for an actor under a policy snapshot.
type Engine struct {
	admins AdminDirectory
}

// NewEngine builds an engine. A nil directory disables the admin override
// classification (no creator is considered an admin), which fails closed.
func NewEngine(admins AdminDirectory) *Engine {
	return &Engine{admins: admins}
}

// PredicateFor returns the visibility predicate for the actor. Filter and
// HasAccess both evaluate this same predicate, so the two can never diverge.
func (e *Engine) PredicateFor(actor domain.Actor, policies domain.PolicyStore) Predicate {
	if actor.Role == domain.RoleAdmin {
		return All()
	}

	// The admin override is an OR-escape over every role rule: when enabled,
	// admin-authored leads stay visible no matter what else excludes them.
	override := e.adminOverridePredicate(policies)

	switch actor.Role {
	case domain.RoleManager:
		if policies.Enabled(domain.PolicyManagerBranchIsolation) {
			return Or(AssignedToBranch(actor.BranchIDValue()), override)
		}
		return All()
	case domain.RoleStaff:
		if policies.Enabled(domain.PolicyStaffOwnLeadsOnly) {
			return Or(CreatedByActor(actor.ID), override)
		}
		if policies.Enabled(domain.PolicyStaffBranchLeadsAccess) && actor.BranchID != nil {
			return Or(AssignedToBranch(actor.BranchIDValue()), override)
		}
		// With neither staff toggle enabled, staff see only admin-authored
		// leads (and only when the override is on). Deliberately closed.
		return override
	default:
		return None()
	}
}

// Filter returns the leads from the collection the actor may see. The result
// is freshly allocated; the input slice is never mutated.
func (e *Engine) Filter(leads []domain.Lead, actor domain.Actor, policies domain.PolicyStore) []domain.Lead {
	pred := e.PredicateFor(actor, policies)
	visible := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if pred(l) {
			visible = append(visible, l)
		}
	}
	return visible
}

// HasAccess reports whether the actor may see the single lead. Equivalent to
// the lead surviving Filter.
func (e *Engine) HasAccess(lead domain.Lead, actor domain.Actor, policies domain.PolicyStore) bool {
	return e.PredicateFor(actor, policies)(lead)
}

func (e *Engine) adminOverridePredicate(policies domain.PolicyStore) Predicate {
	if !policies.Enabled(domain.PolicyAdminLeadsVisibleToAll) || e.admins == nil {
		return None()
	}
	return func(l domain.Lead) bool {
		creator := l.CreatedByID()
		return creator != "" && e.admins.IsAdmin(creator)
	}
}
