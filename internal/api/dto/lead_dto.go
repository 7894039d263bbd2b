package dto

import (
	"time"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// LeadCreateRequest payload for capturing a lead.
type LeadCreateRequest struct {
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	SourceType     string  `json:"source_type"`
	VehicleType    string  `json:"vehicle_type"`
	AssignedBranch *string `json:"assigned_branch"`
}

// LeadUpdateRequest payload for editing a lead. Absent fields are left
// unchanged.
type LeadUpdateRequest struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	SourceType     *string `json:"source_type"`
	VehicleType    *string `json:"vehicle_type"`
	AssignedBranch *string `json:"assigned_branch"`
}

// LeadStatusRequest payload for status changes.
type LeadStatusRequest struct {
	Status domain.LeadStatus `json:"status"`
}

// LeadArchiveRequest payload for archiving/unarchiving.
type LeadArchiveRequest struct {
	Archived bool `json:"archived"`
}

// LeadResponse is the outward lead representation.
type LeadResponse struct {
	ID             string            `json:"id"`
	FullName       string            `json:"full_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Status         domain.LeadStatus `json:"status"`
	SourceType     string            `json:"source_type"`
	VehicleType    string            `json:"vehicle_type"`
	CreatedBy      *string           `json:"created_by,omitempty"`
	AssignedBranch *string           `json:"assigned_branch,omitempty"`
	IsArchived     bool              `json:"is_archived"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// FromLead maps a domain lead to its response shape.
func FromLead(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:             lead.ID,
		FullName:       lead.FullName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Status:         lead.Status,
		SourceType:     lead.SourceType,
		VehicleType:    lead.VehicleType,
		CreatedBy:      lead.CreatedBy,
		AssignedBranch: lead.AssignedBranch,
		IsArchived:     lead.IsArchived,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
}

// FromLeads maps a lead slice.
func FromLeads(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, FromLead(l))
	}
	return out
}
