package dto

import "github.com/spec-kit/lead-crm-service/internal/domain"

// PolicyUpdateRequest payload for flipping a privacy toggle.
type PolicyUpdateRequest struct {
	IsEnabled   bool    `json:"is_enabled"`
	Description *string `json:"description"`
}

// PolicyResponse is the outward toggle representation.
type PolicyResponse struct {
	Key         domain.PolicyKey `json:"key"`
	IsEnabled   bool             `json:"is_enabled"`
	Description string           `json:"description"`
}

// FromToggles maps policy toggles to response shapes.
func FromToggles(toggles []domain.PolicyToggle) []PolicyResponse {
	out := make([]PolicyResponse, 0, len(toggles))
	for _, t := range toggles {
		out = append(out, PolicyResponse{
			Key:         t.Key,
			IsEnabled:   t.IsEnabled,
			Description: t.Description,
		})
	}
	return out
}
