package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func lead(id string, createdBy, branch *string) domain.Lead {
	now := time.Now()
	return domain.Lead{
		ID:             id,
		FullName:       "Customer " + id,
		Status:         domain.LeadStatusNew,
		CreatedBy:      createdBy,
		AssignedBranch: branch,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func policies(enabled ...domain.PolicyKey) domain.PolicyStore {
	toggles := make([]domain.PolicyToggle, 0, len(enabled))
	for _, key := range enabled {
		toggles = append(toggles, domain.PolicyToggle{Key: key, IsEnabled: true})
	}
	return domain.NewPolicyStore(toggles...)
}

func testEngine() *Engine {
	return NewEngine(AdminIDSet{"admin-c": {}})
}

func TestAdminSeesEverything(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", nil, nil),
	}
	actor := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	visible := engine.Filter(leads, actor, policies())
	assert.Len(t, visible, 2)
}

func TestManagerBranchIsolation(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("staff-b"), strPtr("branch-y")),
	}
	manager := domain.Actor{ID: "mgr-1", Role: domain.RoleManager, BranchID: strPtr("branch-x")}

	visible := engine.Filter(leads, manager, policies(domain.PolicyManagerBranchIsolation))
	require.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].ID)

	// With the isolation toggle off, managers are unrestricted.
	visible = engine.Filter(leads, manager, policies())
	assert.Len(t, visible, 2)
}

func TestStaffOwnLeadsOnly(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("staff-b"), strPtr("branch-x")),
	}
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")}

	visible := engine.Filter(leads, staff, policies(domain.PolicyStaffOwnLeadsOnly))
	require.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].ID)
}

func TestStaffBranchAccessWithAdminOverride(t *testing.T) {
	engine := testEngine()
	lead1 := lead("1", strPtr("staff-a"), strPtr("branch-x"))
	lead2 := lead("2", strPtr("staff-b"), strPtr("branch-y"))
	lead3 := lead("3", strPtr("admin-c"), strPtr("branch-y"))
	staffA := domain.Actor{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")}

	p := policies(domain.PolicyStaffBranchLeadsAccess, domain.PolicyAdminLeadsVisibleToAll)
	visible := engine.Filter([]domain.Lead{lead1, lead2, lead3}, staffA, p)

	require.Len(t, visible, 2)
	assert.Equal(t, "1", visible[0].ID, "branch match")
	assert.Equal(t, "3", visible[1].ID, "admin override")
}

func TestStaffFailClosedDefault(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("staff-b"), strPtr("branch-x")),
	}
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")}

	// Neither staff toggle enabled and no admin-authored leads: empty result.
	visible := engine.Filter(leads, staff, policies())
	assert.Empty(t, visible)
}

func TestAdminOverrideOnlyAddsVisibility(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("admin-c"), strPtr("branch-y")),
	}
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")}

	base := policies(domain.PolicyStaffOwnLeadsOnly)
	withOverride := policies(domain.PolicyStaffOwnLeadsOnly, domain.PolicyAdminLeadsVisibleToAll)

	before := engine.Filter(leads, staff, base)
	after := engine.Filter(leads, staff, withOverride)

	for _, l := range before {
		assert.True(t, engine.HasAccess(l, staff, withOverride),
			"override must never remove visibility for lead %s", l.ID)
	}
	assert.Len(t, before, 1)
	assert.Len(t, after, 2)
}

func TestUnknownPolicyKeyIsDisabled(t *testing.T) {
	store := domain.NewPolicyStore(domain.PolicyToggle{Key: "made_up_toggle", IsEnabled: true})
	assert.False(t, store.Enabled(domain.PolicyManagerBranchIsolation))
	assert.Nil(t, store.Get(domain.PolicyManagerBranchIsolation))
}

func TestFilterHasAccessConsistency(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("staff-b"), strPtr("branch-y")),
		lead("3", strPtr("admin-c"), nil),
		lead("4", nil, strPtr("branch-x")),
		lead("5", nil, nil),
	}
	actors := []domain.Actor{
		{ID: "admin-1", Role: domain.RoleAdmin},
		{ID: "mgr-1", Role: domain.RoleManager, BranchID: strPtr("branch-x")},
		{ID: "mgr-2", Role: domain.RoleManager},
		{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")},
		{ID: "staff-c", Role: domain.RoleStaff},
	}
	policySets := []domain.PolicyStore{
		policies(),
		policies(domain.PolicyManagerBranchIsolation),
		policies(domain.PolicyStaffOwnLeadsOnly),
		policies(domain.PolicyStaffBranchLeadsAccess),
		policies(domain.PolicyStaffOwnLeadsOnly, domain.PolicyStaffBranchLeadsAccess),
		policies(domain.PolicyManagerBranchIsolation, domain.PolicyAdminLeadsVisibleToAll),
		policies(domain.PolicyStaffBranchLeadsAccess, domain.PolicyAdminLeadsVisibleToAll),
	}

	for _, actor := range actors {
		for _, p := range policySets {
			for _, l := range leads {
				inFilter := len(engine.Filter([]domain.Lead{l}, actor, p)) == 1
				assert.Equal(t, engine.HasAccess(l, actor, p), inFilter,
					"lead %s actor %s", l.ID, actor.ID)
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	engine := testEngine()
	leads := []domain.Lead{
		lead("1", strPtr("staff-a"), strPtr("branch-x")),
		lead("2", strPtr("staff-b"), strPtr("branch-y")),
	}
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff, BranchID: strPtr("branch-x")}

	_ = engine.Filter(leads, staff, policies(domain.PolicyStaffOwnLeadsOnly))
	assert.Equal(t, "1", leads[0].ID)
	assert.Equal(t, "2", leads[1].ID)
}
