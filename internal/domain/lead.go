package domain

import "time"

// LeadStatus enumerates lifecycle states for rental leads.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusDeclined  LeadStatus = "declined"
)

// Lead is the aggregate for customer rental inquiries.
type Lead struct {
	ID             string
	FullName       string
	Email          string
	Phone          string
	Status         LeadStatus
	SourceType     string
	VehicleType    string
	CreatedBy      *string
	AssignedBranch *string
	IsArchived     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreatedByID returns the raw creator identifier, or "" when the lead
// originated without an owning actor.
func (l Lead) CreatedByID() string {
	if l.CreatedBy == nil {
		return ""
	}
	return *l.CreatedBy
}

// BranchID returns the assigned branch identifier, or "" when unassigned.
func (l Lead) BranchID() string {
	if l.AssignedBranch == nil {
		return ""
	}
	return *l.AssignedBranch
}
