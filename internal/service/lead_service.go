package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-crm-service/internal/domain"
	"github.com/spec-kit/lead-crm-service/internal/events"
	"github.com/spec-kit/lead-crm-service/internal/repository"
	"github.com/spec-kit/lead-crm-service/internal/visibility"
	apperrors "github.com/spec-kit/lead-crm-service/pkg/util"
)

// LeadService coordinates lead workflows behind the visibility and masking
// engines. Every read is filtered per actor and policy snapshot; every
// single-record operation goes through the same access predicate.
type LeadService struct {
	leads      repository.LeadRepository
	staff      repository.StaffRepository
	policies   *PolicyService
	dispatcher events.Dispatcher
}

// LeadDependencies bundles requirements for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	StaffRepo  repository.StaffRepository
	Policies   *PolicyService
	Dispatcher events.Dispatcher
}

// LeadCreateInput describes lead capture payload.
type LeadCreateInput struct {
	FullName       string
	Email          string
	Phone          string
	SourceType     string
	VehicleType    string
	AssignedBranch *string
}

// LeadUpdateInput describes editable lead fields.
type LeadUpdateInput struct {
	FullName       *string
	Email          *string
	Phone          *string
	SourceType     *string
	VehicleType    *string
	AssignedBranch *string
}

// LeadListInput describes listing parameters. Archived selects which half of
// the collection is even a candidate, before visibility rules apply.
type LeadListInput struct {
	Archived   bool
	Statuses   []domain.LeadStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		leads:      deps.LeadRepo,
		staff:      deps.StaffRepo,
		policies:   deps.Policies,
		dispatcher: deps.Dispatcher,
	}
}

// List returns the leads visible to the actor, masked per policy.
func (s *LeadService) List(ctx context.Context, actor domain.Actor, input LeadListInput) ([]domain.Lead, error) {
	engine, policies, err := s.visibilityContext(ctx)
	if err != nil {
		return nil, err
	}

	// Pagination happens after visibility filtering: a SQL LIMIT would
	// count rows the actor may not see and under-fill pages.
	archived := input.Archived
	all, err := s.leads.ListWithFilter(ctx, repository.LeadFilter{
		Archived:   &archived,
		Statuses:   input.Statuses,
		SearchTerm: input.SearchTerm,
	})
	if err != nil {
		return nil, err
	}

	visible := engine.Filter(all, actor, policies)
	visible = paginate(visible, input.Offset, input.Limit)
	return visibility.MaskAll(visible, actor, policies), nil
}

func paginate(leads []domain.Lead, offset, limit int) []domain.Lead {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(leads) {
		return []domain.Lead{}
	}
	leads = leads[offset:]
	if limit > 0 && limit < len(leads) {
		leads = leads[:limit]
	}
	return leads
}

// Get fetches a single lead, enforcing the same predicate as List.
func (s *LeadService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Lead, error) {
	engine, policies, err := s.visibilityContext(ctx)
	if err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !engine.HasAccess(*lead, actor, policies) {
		return nil, apperrors.NewForbidden("access denied")
	}
	masked := visibility.Mask(*lead, actor, policies)
	return &masked, nil
}

// Create captures a new lead owned by the actor.
func (s *LeadService) Create(ctx context.Context, actor domain.Actor, input LeadCreateInput) (*domain.Lead, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("full name required", nil)
	}

	createdBy := actor.ID
	lead := &domain.Lead{
		FullName:       fullName,
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Status:         domain.LeadStatusNew,
		SourceType:     input.SourceType,
		VehicleType:    input.VehicleType,
		CreatedBy:      &createdBy,
		AssignedBranch: input.AssignedBranch,
	}
	if lead.AssignedBranch == nil && actor.BranchID != nil {
		lead.AssignedBranch = actor.BranchID
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadCreated,
		LeadID:    lead.ID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Payload: events.LeadCreatedPayload{
			SourceType:     lead.SourceType,
			VehicleType:    lead.VehicleType,
			AssignedBranch: lead.AssignedBranch,
		},
	})
	return lead, nil
}

// Update edits lead fields after an access check.
func (s *LeadService) Update(ctx context.Context, actor domain.Actor, id string, input LeadUpdateInput) (*domain.Lead, error) {
	lead, err := s.accessibleLead(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		lead.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		lead.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		lead.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.SourceType != nil {
		lead.SourceType = *input.SourceType
	}
	if input.VehicleType != nil {
		lead.VehicleType = *input.VehicleType
	}
	if input.AssignedBranch != nil {
		lead.AssignedBranch = input.AssignedBranch
	}

	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus moves a lead to a new status. Any status may follow any
// other; visibility never gates which transitions are allowed.
func (s *LeadService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, newStatus domain.LeadStatus) (*domain.Lead, error) {
	if !validLeadStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	lead, err := s.accessibleLead(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	oldStatus := lead.Status
	lead.Status = newStatus
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadStatusChanged,
		LeadID:    lead.ID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Payload: events.LeadStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return lead, nil
}

// SetArchived flips the archived flag after an access check.
func (s *LeadService) SetArchived(ctx context.Context, actor domain.Actor, id string, archived bool) (*domain.Lead, error) {
	lead, err := s.accessibleLead(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	lead.IsArchived = archived
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadArchived,
		LeadID:    lead.ID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Payload:   events.LeadArchivedPayload{Archived: archived},
	})
	return lead, nil
}

// Delete removes a lead after an access check.
func (s *LeadService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	lead, err := s.accessibleLead(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.leads.Delete(ctx, lead.ID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLeadDeleted,
		LeadID:    lead.ID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
	})
	return nil
}

func (s *LeadService) accessibleLead(ctx context.Context, actor domain.Actor, id string) (*domain.Lead, error) {
	engine, policies, err := s.visibilityContext(ctx)
	if err != nil {
		return nil, err
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !engine.HasAccess(*lead, actor, policies) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return lead, nil
}

func (s *LeadService) visibilityContext(ctx context.Context) (*visibility.Engine, domain.PolicyStore, error) {
	policies, err := s.policies.Snapshot(ctx)
	if err != nil {
		return nil, domain.PolicyStore{}, err
	}

	adminRole := domain.RoleAdmin
	admins, err := s.staff.List(ctx, repository.StaffFilter{Role: &adminRole})
	if err != nil {
		return nil, domain.PolicyStore{}, err
	}
	return visibility.NewEngine(visibility.NewAdminIDSet(admins)), policies, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validLeadStatus(status domain.LeadStatus) bool {
	switch status {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusConverted, domain.LeadStatusDeclined:
		return true
	}
	return false
}
