package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AnalyticsHandler serves aggregated call statistics for a reporting window.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ByAgent GET /orgs/:orgID/analytics/agents.
func (h *AnalyticsHandler) ByAgent(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	window, err := parseWindow(c)
	if err != nil {
		return err
	}
	summaries, warnings, err := h.analytics.ByAgent(c.UserContext(), orgCtx.OrgID, window)
	if err != nil {
		return err
	}
	return c.JSON(responseWithWarnings(summaries, warnings))
}

// Outcomes GET /orgs/:orgID/analytics/outcomes.
func (h *AnalyticsHandler) Outcomes(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	window, err := parseWindow(c)
	if err != nil {
		return err
	}
	breakdown, warnings, err := h.analytics.Outcomes(c.UserContext(), orgCtx.OrgID, window)
	if err != nil {
		return err
	}
	return c.JSON(responseWithWarnings(breakdown, warnings))
}

func parseWindow(c *fiber.Ctx) (domain.CallWindow, error) {
	var window domain.CallWindow
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, errorutil.NewValidationError("invalid from timestamp", nil)
		}
		window.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, errorutil.NewValidationError("invalid to timestamp", nil)
		}
		window.To = &t
	}
	if raw := c.Query("agent_id"); raw != "" {
		window.AgentID = &raw
	}
	if raw := c.Query("agent_name"); raw != "" {
		window.AgentName = &raw
	}
	return window, nil
}
