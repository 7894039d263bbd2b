package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-crm-service/internal/api/dto"
	"github.com/spec-kit/lead-crm-service/internal/auth"
	"github.com/spec-kit/lead-crm-service/internal/domain"
	"github.com/spec-kit/lead-crm-service/internal/service"
)

// PoliciesHandler exposes privacy toggle administration.
type PoliciesHandler struct {
	policies *service.PolicyService
}

// NewPoliciesHandler constructs handler.
func NewPoliciesHandler(policies *service.PolicyService) *PoliciesHandler {
	return &PoliciesHandler{policies: policies}
}

// List handles GET /policies.
func (h *PoliciesHandler) List(c *fiber.Ctx) error {
	toggles, err := h.policies.ListToggles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromToggles(toggles)})
}

// Update handles PUT /policies/:key.
func (h *PoliciesHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	var req dto.PolicyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	toggle := domain.PolicyToggle{
		Key:       domain.PolicyKey(c.Params("key")),
		IsEnabled: req.IsEnabled,
	}
	if req.Description != nil {
		toggle.Description = *req.Description
	}
	if err := h.policies.UpdateToggle(c.Context(), actor, toggle); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"key": toggle.Key, "is_enabled": toggle.IsEnabled}})
}
