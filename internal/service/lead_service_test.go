package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-crm-service/internal/domain"
	"github.com/spec-kit/lead-crm-service/internal/repository"
)

type stubLeadRepo struct {
	leads      []domain.Lead
	lastFilter repository.LeadFilter
}

func (s *stubLeadRepo) Create(ctx context.Context, lead *domain.Lead) error { return nil }
func (s *stubLeadRepo) Update(ctx context.Context, lead *domain.Lead) error { return nil }
func (s *stubLeadRepo) Delete(ctx context.Context, id string) error         { return nil }

func (s *stubLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	for i := range s.leads {
		if s.leads[i].ID == id {
			return &s.leads[i], nil
		}
	}
	return nil, nil
}

func (s *stubLeadRepo) ListWithFilter(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	s.lastFilter = filter
	return s.leads, nil
}

type stubStaffRepo struct {
	members []domain.StaffMember
}

func (s *stubStaffRepo) Create(ctx context.Context, member *domain.StaffMember) error { return nil }
func (s *stubStaffRepo) Update(ctx context.Context, member *domain.StaffMember) error { return nil }

func (s *stubStaffRepo) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	for i := range s.members {
		if s.members[i].ID == id {
			return &s.members[i], nil
		}
	}
	return nil, nil
}

func (s *stubStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	return nil, nil
}

func (s *stubStaffRepo) List(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	out := []domain.StaffMember{}
	for _, m := range s.members {
		if filter.Role != nil && m.Role != *filter.Role {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubStaffRepo) ListBySource(ctx context.Context, source domain.StaffSource) ([]domain.StaffMember, error) {
	out := []domain.StaffMember{}
	for _, m := range s.members {
		if m.Source == source {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubPolicyRepo struct {
	toggles []domain.PolicyToggle
}

func (s *stubPolicyRepo) ListAll(ctx context.Context) ([]domain.PolicyToggle, error) {
	return s.toggles, nil
}

func (s *stubPolicyRepo) Upsert(ctx context.Context, toggle domain.PolicyToggle) error { return nil }

func ownedLead(id, createdBy string) domain.Lead {
	now := time.Now()
	return domain.Lead{
		ID:        id,
		FullName:  "Customer " + id,
		Status:    domain.LeadStatusNew,
		CreatedBy: &createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestListPaginatesAfterVisibilityFiltering(t *testing.T) {
	leadRepo := &stubLeadRepo{leads: []domain.Lead{
		ownedLead("1", "staff-a"),
		ownedLead("2", "staff-b"),
		ownedLead("3", "staff-a"),
		ownedLead("4", "staff-b"),
		ownedLead("5", "staff-a"),
	}}
	policies := NewPolicyService(&stubPolicyRepo{toggles: []domain.PolicyToggle{
		{Key: domain.PolicyStaffOwnLeadsOnly, IsEnabled: true},
	}}, nil, 0, nil, zap.NewNop())

	svc := NewLeadService(LeadDependencies{
		LeadRepo:  leadRepo,
		StaffRepo: &stubStaffRepo{},
		Policies:  policies,
	})
	actor := domain.Actor{ID: "staff-a", Role: domain.RoleStaff}

	// Three leads are visible; page two with size one must hold the second
	// of them, not come back short because invisible rows filled the window.
	page, err := svc.List(context.Background(), actor, LeadListInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "3", page[0].ID)

	// The SQL query must not carry the page bounds.
	assert.Equal(t, 0, leadRepo.lastFilter.Limit)
	assert.Equal(t, 0, leadRepo.lastFilter.Offset)

	// Offset past the visible set yields an empty page, not an error.
	page, err = svc.List(context.Background(), actor, LeadListInput{Limit: 10, Offset: 3})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestPaginateBounds(t *testing.T) {
	leads := []domain.Lead{ownedLead("1", "a"), ownedLead("2", "a"), ownedLead("3", "a")}

	assert.Len(t, paginate(leads, 0, 0), 3, "zero limit means no cap")
	assert.Len(t, paginate(leads, 0, 2), 2)
	assert.Equal(t, "3", paginate(leads, 2, 5)[0].ID)
	assert.Empty(t, paginate(leads, 7, 2))
	assert.Len(t, paginate(leads, -1, 0), 3)
}
