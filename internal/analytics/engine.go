// Package analytics turns a visibility-filtered lead set into the full
// performance report: overview KPIs, breakdowns, trends, the conversion
// funnel, and per-staff rankings. Everything here is a pure function of its
// inputs; nothing persists between calls.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

const (
	// Response times outside this window are treated as bad data and
	// discarded, not averaged in.
	responseTimeMaxHours = 720

	trailingWindow = 30 * 24 * time.Hour

	sourceFallback   = "other"
	vehicleFallback  = "other"
	branchUnassigned = "Unassigned"
	branchUnknown    = "Unknown Branch"
	insightFallback  = "N/A"
)

var statusColors = map[domain.LeadStatus]string{
	domain.LeadStatusNew:       "#3b82f6",
	domain.LeadStatusContacted: "#f59e0b",
	domain.LeadStatusConverted: "#10b981",
	domain.LeadStatusDeclined:  "#ef4444",
}

// BuildReport computes the analytics report for the requested period.
func BuildReport(input ReportInput) Report {
	now := input.Now
	periodStart := monthsAgo(now, input.Period.Months())
	periodLeads := leadsBetween(input.Leads, periodStart, now)

	branchNames := make(map[string]string, len(input.Branches))
	for _, b := range input.Branches {
		branchNames[b.ID] = b.Name
	}

	growth := monthlyGrowth(input.Leads, now)
	branchPerf := branchPerformance(periodLeads, input.Branches, now)
	vehicles := vehicleAnalysis(periodLeads)

	report := Report{
		Overview:           overview(periodLeads, growth, now),
		LeadsByStatus:      leadsByStatus(periodLeads),
		LeadsByVehicleType: groupCounts(periodLeads, vehicleTypeOf),
		LeadsByLocation:    groupCounts(periodLeads, locationNamer(branchNames)),
		BranchPerformance:  branchPerf,
		VehicleAnalysis:    vehicles,
		MonthlyTrends:      monthlyTrends(input.Leads, input.Period, now),
		LeadSources:        leadSources(periodLeads, input.Leads),
		ConversionFunnel:   conversionFunnel(periodLeads),
		StaffPerformance:   staffPerformance(periodLeads, input.Staff, input.BranchStaff, branchNames),
	}
	report.BusinessInsights = businessInsights(report, periodLeads, growth)
	return report
}

func overview(periodLeads []domain.Lead, growth int, now time.Time) Overview {
	converted := countStatus(periodLeads, domain.LeadStatusConverted)
	return Overview{
		TotalLeads:          len(periodLeads),
		NewLeads:            countCreatedSince(periodLeads, now.Add(-trailingWindow)),
		ConvertedLeads:      converted,
		ConversionRate:      percent(converted, len(periodLeads)),
		AverageResponseTime: averageResponseHours(periodLeads),
		MonthlyGrowth:       growth,
	}
}

// monthlyGrowth compares the trailing 30 days against the 30 days before
// that, over the whole lead set. A zero previous window maps to 100 when
// anything recent exists and 0 otherwise; the asymmetry avoids an undefined
// ratio.
func monthlyGrowth(leads []domain.Lead, now time.Time) int {
	recentStart := now.Add(-trailingWindow)
	previousStart := now.Add(-2 * trailingWindow)

	recent, previous := 0, 0
	for _, l := range leads {
		switch {
		case !l.CreatedAt.Before(recentStart) && !l.CreatedAt.After(now):
			recent++
		case !l.CreatedAt.Before(previousStart) && l.CreatedAt.Before(recentStart):
			previous++
		}
	}
	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(recent-previous) / float64(previous) * 100))
}

func leadsByStatus(leads []domain.Lead) []StatusCount {
	order := []domain.LeadStatus{
		domain.LeadStatusNew,
		domain.LeadStatusContacted,
		domain.LeadStatusConverted,
		domain.LeadStatusDeclined,
	}
	counts := make(map[domain.LeadStatus]int)
	for _, l := range leads {
		counts[l.Status]++
	}
	out := make([]StatusCount, 0, len(order))
	for _, status := range order {
		out = append(out, StatusCount{
			Name:  string(status),
			Value: counts[status],
			Color: statusColors[status],
		})
	}
	return out
}

func groupCounts(leads []domain.Lead, name func(domain.Lead) string) []NameCount {
	counts := make(map[string]int)
	for _, l := range leads {
		counts[name(l)]++
	}
	out := make([]NameCount, 0, len(counts))
	for n, v := range counts {
		out = append(out, NameCount{Name: n, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func vehicleTypeOf(l domain.Lead) string {
	if l.VehicleType == "" {
		return vehicleFallback
	}
	return l.VehicleType
}

func locationNamer(branchNames map[string]string) func(domain.Lead) string {
	return func(l domain.Lead) string {
		if l.AssignedBranch == nil {
			return branchUnassigned
		}
		if name, ok := branchNames[*l.AssignedBranch]; ok {
			return name
		}
		return branchUnknown
	}
}

func branchPerformance(periodLeads []domain.Lead, branches []domain.Branch, now time.Time) []BranchPerformance {
	recentStart := now.Add(-trailingWindow)
	out := make([]BranchPerformance, 0, len(branches))
	for _, b := range branches {
		entry := BranchPerformance{BranchID: b.ID, BranchName: b.Name}
		for _, l := range periodLeads {
			if l.BranchID() != b.ID {
				continue
			}
			entry.TotalLeads++
			if l.Status == domain.LeadStatusConverted {
				entry.ConvertedLeads++
			}
			if !l.CreatedAt.Before(recentStart) {
				entry.RecentLeads++
			}
		}
		entry.ConversionRate = percent(entry.ConvertedLeads, entry.TotalLeads)
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConversionRate > out[j].ConversionRate
	})
	return out
}

func vehicleAnalysis(periodLeads []domain.Lead) []VehicleAnalysis {
	byType := make(map[string]*VehicleAnalysis)
	order := make([]string, 0)
	for _, l := range periodLeads {
		key := vehicleTypeOf(l)
		entry, ok := byType[key]
		if !ok {
			entry = &VehicleAnalysis{VehicleType: key}
			byType[key] = entry
			order = append(order, key)
		}
		entry.TotalLeads++
		if l.Status == domain.LeadStatusConverted {
			entry.ConvertedLeads++
		}
	}
	out := make([]VehicleAnalysis, 0, len(order))
	for _, key := range order {
		entry := byType[key]
		entry.ConversionRate = percent(entry.ConvertedLeads, entry.TotalLeads)
		out = append(out, *entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConversionRate > out[j].ConversionRate
	})
	return out
}

func monthlyTrends(leads []domain.Lead, period Period, now time.Time) []MonthlyTrend {
	months := period.Months()
	// Step back from the first of the current month: AddDate on the raw
	// instant normalizes month-end days and would skip or duplicate buckets.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthlyTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := base.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		trend := MonthlyTrend{Month: start.Format("Jan 2006")}
		for _, l := range leads {
			if l.CreatedAt.Before(start) || !l.CreatedAt.Before(end) {
				continue
			}
			trend.Leads++
			if l.Status == domain.LeadStatusConverted {
				trend.Conversions++
			}
		}
		trend.ConversionRate = percent(trend.Conversions, trend.Leads)
		out = append(out, trend)
	}
	return out
}

// leadSources counts the period-scoped leads per source but computes each
// source's conversion rate over its all-time population. The asymmetry is
// intentional and matches the reference behavior.
func leadSources(periodLeads, allLeads []domain.Lead) []LeadSource {
	values := make(map[string]int)
	order := make([]string, 0)
	for _, l := range periodLeads {
		key := sourceOf(l)
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key]++
	}

	allTimeTotal := make(map[string]int)
	allTimeConverted := make(map[string]int)
	for _, l := range allLeads {
		key := sourceOf(l)
		allTimeTotal[key]++
		if l.Status == domain.LeadStatusConverted {
			allTimeConverted[key]++
		}
	}

	out := make([]LeadSource, 0, len(order))
	for _, key := range order {
		out = append(out, LeadSource{
			Name:           key,
			Value:          values[key],
			ConversionRate: percent(allTimeConverted[key], allTimeTotal[key]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sourceOf(l domain.Lead) string {
	if l.SourceType == "" {
		return sourceFallback
	}
	return l.SourceType
}

func conversionFunnel(periodLeads []domain.Lead) []FunnelStage {
	total := len(periodLeads)
	contacted := 0
	inProgress := 0
	converted := 0
	for _, l := range periodLeads {
		switch l.Status {
		case domain.LeadStatusContacted:
			contacted++
			inProgress++
		case domain.LeadStatusConverted:
			contacted++
			converted++
		}
	}
	return []FunnelStage{
		{Stage: "Initial Inquiries", Count: total, Percentage: percent(total, total)},
		{Stage: "Contacted", Count: contacted, Percentage: percent(contacted, total)},
		{Stage: "In Progress", Count: inProgress, Percentage: percent(inProgress, total)},
		{Stage: "Converted", Count: converted, Percentage: percent(converted, total)},
	}
}

func staffPerformance(periodLeads []domain.Lead, staff, branchStaff []domain.StaffMember, branchNames map[string]string) []StaffPerformance {
	members := make([]domain.StaffMember, 0, len(staff)+len(branchStaff))
	members = append(members, staff...)
	members = append(members, branchStaff...)

	out := make([]StaffPerformance, 0, len(members))
	for _, m := range members {
		ref := m.Ref()
		captured := make([]domain.Lead, 0)
		for _, l := range periodLeads {
			if ref.Matches(l.CreatedByID()) {
				captured = append(captured, l)
			}
		}
		if len(captured) == 0 {
			continue
		}

		entry := StaffPerformance{
			StaffID:       m.ID,
			Name:          m.Name,
			BranchName:    staffBranchName(m, branchNames),
			CapturedLeads: len(captured),
		}
		for _, l := range captured {
			switch l.Status {
			case domain.LeadStatusContacted:
				entry.ContactedLeads++
			case domain.LeadStatusConverted:
				entry.ContactedLeads++
				entry.ConvertedLeads++
			}
		}
		entry.ContactRate = percent(entry.ContactedLeads, entry.CapturedLeads)
		entry.ConversionRate = percent(entry.ConvertedLeads, entry.CapturedLeads)
		entry.AverageResponseTime = averageResponseHours(captured)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConversionRate != out[j].ConversionRate {
			return out[i].ConversionRate > out[j].ConversionRate
		}
		return out[i].CapturedLeads > out[j].CapturedLeads
	})
	return out
}

func staffBranchName(m domain.StaffMember, branchNames map[string]string) string {
	if m.BranchID == nil {
		return branchUnassigned
	}
	if name, ok := branchNames[*m.BranchID]; ok {
		return name
	}
	return branchUnknown
}

func businessInsights(report Report, periodLeads []domain.Lead, growth int) BusinessInsights {
	insights := BusinessInsights{
		TopBranch:      insightFallback,
		TopVehicleType: insightFallback,
		LeadGrowth:     growth,
		TotalActiveLeads: countStatus(periodLeads, domain.LeadStatusNew) +
			countStatus(periodLeads, domain.LeadStatusContacted),
	}
	if len(report.BranchPerformance) > 0 {
		insights.TopBranch = report.BranchPerformance[0].BranchName
	}
	if len(report.VehicleAnalysis) > 0 {
		insights.TopVehicleType = report.VehicleAnalysis[0].VehicleType
	}
	return insights
}

// averageResponseHours averages updated-minus-created for leads past the
// "new" stage, ignoring values outside [0, responseTimeMaxHours] as noise.
// Returns 0 when no qualifying lead exists, rounded to one decimal.
func averageResponseHours(leads []domain.Lead) float64 {
	sum := 0.0
	count := 0
	for _, l := range leads {
		if l.Status == domain.LeadStatusNew {
			continue
		}
		hours := l.UpdatedAt.Sub(l.CreatedAt).Hours()
		if hours < 0 || hours > responseTimeMaxHours {
			continue
		}
		sum += hours
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}

// monthsAgo steps n calendar months back from t, clamping the day to the
// target month's length so a month-end instant never spills into the
// following month (May 31 minus three months is Feb 28, not Mar 3).
func monthsAgo(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -n, 0)
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func leadsBetween(leads []domain.Lead, start, end time.Time) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if l.CreatedAt.Before(start) || l.CreatedAt.After(end) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func countStatus(leads []domain.Lead, status domain.LeadStatus) int {
	n := 0
	for _, l := range leads {
		if l.Status == status {
			n++
		}
	}
	return n
}

func countCreatedSince(leads []domain.Lead, since time.Time) int {
	n := 0
	for _, l := range leads {
		if !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

// percent is the shared zero-guarded rounded ratio: 0 when total is 0,
// never NaN.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
