package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testLead(id string, status domain.LeadStatus, createdAt time.Time) domain.Lead {
	return domain.Lead{
		ID:        id,
		FullName:  "Customer " + id,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func baseInput(leads []domain.Lead) ReportInput {
	return ReportInput{
		Leads:  leads,
		Period: PeriodThreeMonths,
		Now:    testNow,
	}
}

func TestParsePeriod(t *testing.T) {
	for _, token := range []string{"1m", "3m", "6m", "12m"} {
		p, ok := ParsePeriod(token)
		require.True(t, ok, token)
		assert.Equal(t, token, string(p))
	}
	_, ok := ParsePeriod("2w")
	assert.False(t, ok)
}

func TestEmptyLeadSetProducesWellFormedReport(t *testing.T) {
	input := baseInput(nil)
	input.Branches = []domain.Branch{{ID: "b1", Name: "Downtown"}}

	report := BuildReport(input)

	assert.Equal(t, 0, report.Overview.TotalLeads)
	assert.Equal(t, 0, report.Overview.ConversionRate)
	assert.Equal(t, 0.0, report.Overview.AverageResponseTime)
	assert.Equal(t, 0, report.Overview.MonthlyGrowth)

	require.Len(t, report.BranchPerformance, 1)
	assert.Equal(t, BranchPerformance{BranchID: "b1", BranchName: "Downtown"}, report.BranchPerformance[0])

	require.Len(t, report.ConversionFunnel, 4)
	for _, stage := range report.ConversionFunnel {
		assert.Equal(t, 0, stage.Count)
		assert.Equal(t, 0, stage.Percentage)
	}

	assert.Equal(t, "N/A", report.BusinessInsights.TopBranch)
	assert.Equal(t, "N/A", report.BusinessInsights.TopVehicleType)
	assert.Empty(t, report.StaffPerformance)
}

func TestOverviewConversionRate(t *testing.T) {
	leads := []domain.Lead{
		testLead("1", domain.LeadStatusConverted, testNow.AddDate(0, 0, -10)),
		testLead("2", domain.LeadStatusNew, testNow.AddDate(0, 0, -10)),
		testLead("3", domain.LeadStatusDeclined, testNow.AddDate(0, 0, -10)),
	}
	report := BuildReport(baseInput(leads))

	assert.Equal(t, 3, report.Overview.TotalLeads)
	assert.Equal(t, 1, report.Overview.ConvertedLeads)
	assert.Equal(t, 33, report.Overview.ConversionRate)
	assert.Equal(t, 3, report.Overview.NewLeads, "all created in trailing 30 days")
}

func TestPeriodScoping(t *testing.T) {
	leads := []domain.Lead{
		testLead("in", domain.LeadStatusNew, testNow.AddDate(0, -2, 0)),
		testLead("out", domain.LeadStatusNew, testNow.AddDate(0, -5, 0)),
	}
	report := BuildReport(baseInput(leads))
	assert.Equal(t, 1, report.Overview.TotalLeads)
}

func TestMonthlyGrowthEdgeRules(t *testing.T) {
	// previous=0, recent=5 -> 100
	recent := make([]domain.Lead, 0, 5)
	for i := 0; i < 5; i++ {
		recent = append(recent, testLead("r", domain.LeadStatusNew, testNow.AddDate(0, 0, -(i+1))))
	}
	report := BuildReport(baseInput(recent))
	assert.Equal(t, 100, report.Overview.MonthlyGrowth)

	// previous=0, recent=0 -> 0
	report = BuildReport(baseInput(nil))
	assert.Equal(t, 0, report.Overview.MonthlyGrowth)

	// previous=4, recent=6 -> 50
	leads := make([]domain.Lead, 0, 10)
	for i := 0; i < 6; i++ {
		leads = append(leads, testLead("r", domain.LeadStatusNew, testNow.AddDate(0, 0, -5)))
	}
	for i := 0; i < 4; i++ {
		leads = append(leads, testLead("p", domain.LeadStatusNew, testNow.AddDate(0, 0, -45)))
	}
	report = BuildReport(baseInput(leads))
	assert.Equal(t, 50, report.Overview.MonthlyGrowth)
}

func TestAverageResponseTimeDiscardsOutliers(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -20)
	fast := testLead("1", domain.LeadStatusConverted, t0)
	fast.UpdatedAt = t0.Add(2 * time.Hour)
	slow := testLead("2", domain.LeadStatusConverted, t0)
	slow.UpdatedAt = t0.Add(1000 * time.Hour)

	report := BuildReport(baseInput([]domain.Lead{fast, slow}))
	assert.Equal(t, 2.0, report.Overview.AverageResponseTime)
}

func TestAverageResponseTimeIgnoresNewAndNegative(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -20)
	fresh := testLead("1", domain.LeadStatusNew, t0)
	fresh.UpdatedAt = t0.Add(4 * time.Hour)
	broken := testLead("2", domain.LeadStatusContacted, t0)
	broken.UpdatedAt = t0.Add(-1 * time.Hour)

	report := BuildReport(baseInput([]domain.Lead{fresh, broken}))
	assert.Equal(t, 0.0, report.Overview.AverageResponseTime)
}

func TestConversionFunnelStages(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)
	leads := []domain.Lead{
		testLead("1", domain.LeadStatusNew, t0),
		testLead("2", domain.LeadStatusContacted, t0),
		testLead("3", domain.LeadStatusConverted, t0),
		testLead("4", domain.LeadStatusDeclined, t0),
	}
	report := BuildReport(baseInput(leads))

	require.Len(t, report.ConversionFunnel, 4)
	assert.Equal(t, FunnelStage{Stage: "Initial Inquiries", Count: 4, Percentage: 100}, report.ConversionFunnel[0])
	assert.Equal(t, FunnelStage{Stage: "Contacted", Count: 2, Percentage: 50}, report.ConversionFunnel[1])
	assert.Equal(t, FunnelStage{Stage: "In Progress", Count: 1, Percentage: 25}, report.ConversionFunnel[2])
	assert.Equal(t, FunnelStage{Stage: "Converted", Count: 1, Percentage: 25}, report.ConversionFunnel[3])
}

func TestBranchPerformanceIncludesEmptyBranchesAndSorts(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)
	l1 := testLead("1", domain.LeadStatusConverted, t0)
	l1.AssignedBranch = strPtr("b1")
	l2 := testLead("2", domain.LeadStatusNew, t0)
	l2.AssignedBranch = strPtr("b2")

	input := baseInput([]domain.Lead{l1, l2})
	input.Branches = []domain.Branch{
		{ID: "b2", Name: "Airport"},
		{ID: "b1", Name: "Downtown"},
		{ID: "b3", Name: "Marina"},
	}
	report := BuildReport(input)

	require.Len(t, report.BranchPerformance, 3)
	assert.Equal(t, "Downtown", report.BranchPerformance[0].BranchName)
	assert.Equal(t, 100, report.BranchPerformance[0].ConversionRate)
	assert.Equal(t, 1, report.BranchPerformance[0].RecentLeads)

	// Zero-lead branch is present, zero-valued, not omitted.
	names := []string{
		report.BranchPerformance[0].BranchName,
		report.BranchPerformance[1].BranchName,
		report.BranchPerformance[2].BranchName,
	}
	assert.Contains(t, names, "Marina")
	for _, bp := range report.BranchPerformance {
		if bp.BranchName == "Marina" {
			assert.Equal(t, BranchPerformance{BranchID: "b3", BranchName: "Marina"}, bp)
		}
	}
}

func TestLeadSourcesAllTimeRateDenominator(t *testing.T) {
	// Web: 1 lead inside the period (converted), 3 older leads (none
	// converted). Value is period-scoped, the rate is all-time: 1/4 = 25%.
	inPeriod := testLead("1", domain.LeadStatusConverted, testNow.AddDate(0, 0, -5))
	inPeriod.SourceType = "web"
	leads := []domain.Lead{inPeriod}
	for i := 0; i < 3; i++ {
		old := testLead("old", domain.LeadStatusDeclined, testNow.AddDate(0, -8, 0))
		old.SourceType = "web"
		leads = append(leads, old)
	}
	noSource := testLead("2", domain.LeadStatusNew, testNow.AddDate(0, 0, -5))
	leads = append(leads, noSource)

	report := BuildReport(baseInput(leads))

	require.Len(t, report.LeadSources, 2)
	bySource := map[string]LeadSource{}
	for _, s := range report.LeadSources {
		bySource[s.Name] = s
	}
	assert.Equal(t, LeadSource{Name: "web", Value: 1, ConversionRate: 25}, bySource["web"])
	assert.Equal(t, LeadSource{Name: "other", Value: 1, ConversionRate: 0}, bySource["other"])
}

func TestMonthlyTrendsOldestFirst(t *testing.T) {
	leads := []domain.Lead{
		testLead("1", domain.LeadStatusConverted, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)),
		testLead("2", domain.LeadStatusNew, time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)),
	}
	report := BuildReport(baseInput(leads))

	require.Len(t, report.MonthlyTrends, 3)
	assert.Equal(t, "Apr 2026", report.MonthlyTrends[0].Month)
	assert.Equal(t, "May 2026", report.MonthlyTrends[1].Month)
	assert.Equal(t, "Jun 2026", report.MonthlyTrends[2].Month)

	assert.Equal(t, MonthlyTrend{Month: "Apr 2026", Leads: 1, Conversions: 1, ConversionRate: 100}, report.MonthlyTrends[0])
	assert.Equal(t, MonthlyTrend{Month: "May 2026", Leads: 0, Conversions: 0, ConversionRate: 0}, report.MonthlyTrends[1])
	assert.Equal(t, 1, report.MonthlyTrends[2].Leads)
}

func TestMonthlyTrendsMonthEndNow(t *testing.T) {
	// May 31 has no counterpart in several earlier months; naive month
	// subtraction would skip April and emit May twice.
	monthEnd := time.Date(2026, time.May, 31, 23, 0, 0, 0, time.UTC)
	leads := []domain.Lead{
		testLead("apr", domain.LeadStatusNew, time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC)),
	}
	input := baseInput(leads)
	input.Now = monthEnd

	report := BuildReport(input)

	require.Len(t, report.MonthlyTrends, 3)
	assert.Equal(t, "Mar 2026", report.MonthlyTrends[0].Month)
	assert.Equal(t, "Apr 2026", report.MonthlyTrends[1].Month)
	assert.Equal(t, "May 2026", report.MonthlyTrends[2].Month)
	assert.Equal(t, 1, report.MonthlyTrends[1].Leads)

	// The period window steps back with day clamping: Feb 28 onward, so the
	// April lead stays in scope.
	assert.Equal(t, 1, report.Overview.TotalLeads)
}

func TestMonthsAgoClampsMonthEnd(t *testing.T) {
	mayEnd := time.Date(2026, time.May, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC), monthsAgo(mayEnd, 3))
	assert.Equal(t, time.Date(2026, time.April, 30, 12, 0, 0, 0, time.UTC), monthsAgo(mayEnd, 1))

	midMonth := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC), monthsAgo(midMonth, 3))
}

func TestStaffPerformanceMergesDirectoriesAndMatchesPrefixedIDs(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)

	byStaff := testLead("1", domain.LeadStatusConverted, t0)
	byStaff.CreatedBy = strPtr("u1")
	byStaff.UpdatedAt = t0.Add(3 * time.Hour)

	byBranchStaffBare := testLead("2", domain.LeadStatusContacted, t0)
	byBranchStaffBare.CreatedBy = strPtr("bs1")
	byBranchStaffBare.UpdatedAt = t0.Add(5 * time.Hour)

	byBranchStaffPrefixed := testLead("3", domain.LeadStatusNew, t0)
	byBranchStaffPrefixed.CreatedBy = strPtr(domain.BranchStaffIDPrefix + "bs1")

	input := baseInput([]domain.Lead{byStaff, byBranchStaffBare, byBranchStaffPrefixed})
	input.Branches = []domain.Branch{{ID: "b1", Name: "Downtown"}}
	input.Staff = []domain.StaffMember{
		{ID: "u1", Name: "Omar", Role: domain.RoleStaff, Source: domain.StaffSourceStaff, BranchID: strPtr("b1")},
		{ID: "idle", Name: "Idle", Role: domain.RoleStaff, Source: domain.StaffSourceStaff},
	}
	input.BranchStaff = []domain.StaffMember{
		{ID: "bs1", Name: "Sara", Role: domain.RoleStaff, Source: domain.StaffSourceBranchStaff, BranchID: strPtr("missing")},
	}

	report := BuildReport(input)

	require.Len(t, report.StaffPerformance, 2, "zero-capture staff excluded")

	omar := report.StaffPerformance[0]
	assert.Equal(t, "Omar", omar.Name)
	assert.Equal(t, 1, omar.CapturedLeads)
	assert.Equal(t, 100, omar.ConversionRate)
	assert.Equal(t, 100, omar.ContactRate)
	assert.Equal(t, "Downtown", omar.BranchName)
	assert.Equal(t, 3.0, omar.AverageResponseTime)

	sara := report.StaffPerformance[1]
	assert.Equal(t, "Sara", sara.Name)
	assert.Equal(t, 2, sara.CapturedLeads, "bare and prefixed ids both match")
	assert.Equal(t, 1, sara.ContactedLeads)
	assert.Equal(t, 0, sara.ConvertedLeads)
	assert.Equal(t, 50, sara.ContactRate)
	assert.Equal(t, "Unknown Branch", sara.BranchName)
}

func TestStaffPerformanceSortTieBreak(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)
	leads := []domain.Lead{}
	// a: 2 captured, 2 converted (100%); b: 1 captured, 1 converted (100%).
	for i := 0; i < 2; i++ {
		l := testLead("a", domain.LeadStatusConverted, t0)
		l.CreatedBy = strPtr("a")
		leads = append(leads, l)
	}
	l := testLead("b", domain.LeadStatusConverted, t0)
	l.CreatedBy = strPtr("b")
	leads = append(leads, l)

	input := baseInput(leads)
	input.Staff = []domain.StaffMember{
		{ID: "b", Name: "B", Source: domain.StaffSourceStaff},
		{ID: "a", Name: "A", Source: domain.StaffSourceStaff},
	}
	report := BuildReport(input)

	require.Len(t, report.StaffPerformance, 2)
	assert.Equal(t, "A", report.StaffPerformance[0].Name, "equal rate, more captures first")
}

func TestBusinessInsights(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)
	l1 := testLead("1", domain.LeadStatusConverted, t0)
	l1.AssignedBranch = strPtr("b1")
	l1.VehicleType = "suv"
	l2 := testLead("2", domain.LeadStatusNew, t0)
	l3 := testLead("3", domain.LeadStatusContacted, t0)

	input := baseInput([]domain.Lead{l1, l2, l3})
	input.Branches = []domain.Branch{{ID: "b1", Name: "Downtown"}}
	report := BuildReport(input)

	assert.Equal(t, "Downtown", report.BusinessInsights.TopBranch)
	assert.Equal(t, "suv", report.BusinessInsights.TopVehicleType)
	assert.Equal(t, report.Overview.MonthlyGrowth, report.BusinessInsights.LeadGrowth)
	assert.Equal(t, 2, report.BusinessInsights.TotalActiveLeads, "new + contacted")
}

func TestLeadsByLocationFallbacks(t *testing.T) {
	t0 := testNow.AddDate(0, 0, -10)
	assigned := testLead("1", domain.LeadStatusNew, t0)
	assigned.AssignedBranch = strPtr("b1")
	orphan := testLead("2", domain.LeadStatusNew, t0)
	ghost := testLead("3", domain.LeadStatusNew, t0)
	ghost.AssignedBranch = strPtr("gone")

	input := baseInput([]domain.Lead{assigned, orphan, ghost})
	input.Branches = []domain.Branch{{ID: "b1", Name: "Downtown"}}
	report := BuildReport(input)

	names := make([]string, 0, len(report.LeadsByLocation))
	for _, entry := range report.LeadsByLocation {
		names = append(names, entry.Name)
	}
	assert.ElementsMatch(t, []string{"Downtown", "Unassigned", "Unknown Branch"}, names)
}
