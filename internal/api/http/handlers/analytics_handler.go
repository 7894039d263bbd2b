package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-crm-service/internal/analytics"
	"github.com/spec-kit/lead-crm-service/internal/auth"
	"github.com/spec-kit/lead-crm-service/internal/service"
)

// AnalyticsHandler exposes the performance report endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Report handles GET /analytics/report?period=3m.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	period, ok := analytics.ParsePeriod(c.Query("period", string(analytics.PeriodOneMonth)))
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "period must be one of 1m, 3m, 6m, 12m")
	}

	report, err := h.analytics.BuildReport(c.Context(), actor, period)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
