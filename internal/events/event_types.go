package events

import (
	"time"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated       EventType = "lead_created"
	EventLeadStatusChanged EventType = "lead_status_changed"
	EventLeadArchived      EventType = "lead_archived"
	EventLeadDeleted       EventType = "lead_deleted"
	EventPolicyUpdated     EventType = "policy_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	SourceType     string  `json:"source_type"`
	VehicleType    string  `json:"vehicle_type"`
	AssignedBranch *string `json:"assigned_branch,omitempty"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus domain.LeadStatus `json:"old_status"`
	NewStatus domain.LeadStatus `json:"new_status"`
}

// LeadArchivedPayload payload.
type LeadArchivedPayload struct {
	Archived bool `json:"archived"`
}

// PolicyUpdatedPayload payload.
type PolicyUpdatedPayload struct {
	Key       domain.PolicyKey `json:"key"`
	IsEnabled bool             `json:"is_enabled"`
}
