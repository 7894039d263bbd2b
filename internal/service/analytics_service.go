package service

import (
	"context"
	"time"

	"github.com/spec-kit/lead-crm-service/internal/analytics"
	"github.com/spec-kit/lead-crm-service/internal/domain"
	"github.com/spec-kit/lead-crm-service/internal/observability"
	"github.com/spec-kit/lead-crm-service/internal/repository"
	"github.com/spec-kit/lead-crm-service/internal/visibility"
)

// AnalyticsService assembles the report inputs: it loads the raw
// collections, applies the actor's visibility over the active lead set, and
// hands the result to the aggregation engine.
type AnalyticsService struct {
	leads    repository.LeadRepository
	branches repository.BranchRepository
	staff    repository.StaffRepository
	policies *PolicyService
	metrics  *observability.Metrics
	now      func() time.Time
}

// AnalyticsDependencies bundles requirements for the analytics service.
type AnalyticsDependencies struct {
	LeadRepo   repository.LeadRepository
	BranchRepo repository.BranchRepository
	StaffRepo  repository.StaffRepository
	Policies   *PolicyService
	Metrics    *observability.Metrics
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	return &AnalyticsService{
		leads:    deps.LeadRepo,
		branches: deps.BranchRepo,
		staff:    deps.StaffRepo,
		policies: deps.Policies,
		metrics:  deps.Metrics,
		now:      time.Now,
	}
}

// BuildReport computes the analytics report the actor is entitled to see.
func (s *AnalyticsService) BuildReport(ctx context.Context, actor domain.Actor, period analytics.Period) (*analytics.Report, error) {
	policies, err := s.policies.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	archived := false
	leads, err := s.leads.ListWithFilter(ctx, repository.LeadFilter{Archived: &archived})
	if err != nil {
		return nil, err
	}
	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, err
	}
	staffDir, err := s.staff.ListBySource(ctx, domain.StaffSourceStaff)
	if err != nil {
		return nil, err
	}
	branchStaffDir, err := s.staff.ListBySource(ctx, domain.StaffSourceBranchStaff)
	if err != nil {
		return nil, err
	}

	allStaff := make([]domain.StaffMember, 0, len(staffDir)+len(branchStaffDir))
	allStaff = append(allStaff, staffDir...)
	allStaff = append(allStaff, branchStaffDir...)
	engine := visibility.NewEngine(visibility.NewAdminIDSet(allStaff))
	visible := engine.Filter(leads, actor, policies)

	report := analytics.BuildReport(analytics.ReportInput{
		Leads:       visible,
		Branches:    branches,
		Staff:       staffDir,
		BranchStaff: branchStaffDir,
		Period:      period,
		Now:         s.now(),
	})
	s.metrics.RecordReport(string(period))
	return &report, nil
}
