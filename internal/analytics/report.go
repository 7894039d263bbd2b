package analytics

import (
	"time"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// Period selects the trailing window a report covers.
type Period string

const (
	PeriodOneMonth     Period = "1m"
	PeriodThreeMonths  Period = "3m"
	PeriodSixMonths    Period = "6m"
	PeriodTwelveMonths Period = "12m"
)

// ParsePeriod validates a period token.
func ParsePeriod(raw string) (Period, bool) {
	switch Period(raw) {
	case PeriodOneMonth, PeriodThreeMonths, PeriodSixMonths, PeriodTwelveMonths:
		return Period(raw), true
	}
	return "", false
}

// Months returns the window length. Unknown tokens fall back to one month.
func (p Period) Months() int {
	switch p {
	case PeriodThreeMonths:
		return 3
	case PeriodSixMonths:
		return 6
	case PeriodTwelveMonths:
		return 12
	default:
		return 1
	}
}

// ReportInput bundles everything a report is computed from. Leads must
// already be visibility-filtered and non-archived; Now anchors every
// trailing-window calculation.
type ReportInput struct {
	Leads       []domain.Lead
	Branches    []domain.Branch
	Staff       []domain.StaffMember
	BranchStaff []domain.StaffMember
	Period      Period
	Now         time.Time
}

// Overview holds the headline KPIs.
type Overview struct {
	TotalLeads          int     `json:"total_leads"`
	NewLeads            int     `json:"new_leads"`
	ConvertedLeads      int     `json:"converted_leads"`
	ConversionRate      int     `json:"conversion_rate"`
	AverageResponseTime float64 `json:"average_response_time_hours"`
	MonthlyGrowth       int     `json:"monthly_growth"`
}

// StatusCount is a group count with a display color.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// NameCount is a plain group count.
type NameCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// BranchPerformance summarizes one branch. Branches with zero leads still
// get an entry.
type BranchPerformance struct {
	BranchID       string `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	TotalLeads     int    `json:"total_leads"`
	ConvertedLeads int    `json:"converted_leads"`
	ConversionRate int    `json:"conversion_rate"`
	RecentLeads    int    `json:"recent_leads"`
}

// VehicleAnalysis summarizes one vehicle type.
type VehicleAnalysis struct {
	VehicleType    string `json:"vehicle_type"`
	TotalLeads     int    `json:"total_leads"`
	ConvertedLeads int    `json:"converted_leads"`
	ConversionRate int    `json:"conversion_rate"`
}

// MonthlyTrend is one calendar-month data point.
type MonthlyTrend struct {
	Month          string `json:"month"`
	Leads          int    `json:"leads"`
	Conversions    int    `json:"conversions"`
	ConversionRate int    `json:"conversion_rate"`
}

// LeadSource summarizes one source channel. Value is period-scoped; the
// conversion rate denominator is the source's all-time lead population.
type LeadSource struct {
	Name           string `json:"name"`
	Value          int    `json:"value"`
	ConversionRate int    `json:"conversion_rate"`
}

// FunnelStage is one of the four fixed conversion stages.
type FunnelStage struct {
	Stage      string `json:"stage"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// StaffPerformance ranks one staff member by conversion outcomes.
type StaffPerformance struct {
	StaffID             string  `json:"staff_id"`
	Name                string  `json:"name"`
	BranchName          string  `json:"branch_name"`
	CapturedLeads       int     `json:"captured_leads"`
	ContactedLeads      int     `json:"contacted_leads"`
	ConvertedLeads      int     `json:"converted_leads"`
	ContactRate         int     `json:"contact_rate"`
	ConversionRate      int     `json:"conversion_rate"`
	AverageResponseTime float64 `json:"average_response_time_hours"`
}

// BusinessInsights holds the derived headline takeaways.
type BusinessInsights struct {
	TopBranch        string `json:"top_branch"`
	TopVehicleType   string `json:"top_vehicle_type"`
	LeadGrowth       int    `json:"lead_growth"`
	TotalActiveLeads int    `json:"total_active_leads"`
}

// Report is the full analytics payload, assembled per request and never
// persisted.
type Report struct {
	Overview           Overview            `json:"overview"`
	LeadsByStatus      []StatusCount       `json:"leads_by_status"`
	LeadsByVehicleType []NameCount         `json:"leads_by_vehicle_type"`
	LeadsByLocation    []NameCount         `json:"leads_by_location"`
	BranchPerformance  []BranchPerformance `json:"branch_performance"`
	VehicleAnalysis    []VehicleAnalysis   `json:"vehicle_analysis"`
	MonthlyTrends      []MonthlyTrend      `json:"monthly_trends"`
	LeadSources        []LeadSource        `json:"lead_sources"`
	ConversionFunnel   []FunnelStage       `json:"conversion_funnel"`
	StaffPerformance   []StaffPerformance  `json:"staff_performance"`
	BusinessInsights   BusinessInsights    `json:"business_insights"`
}
