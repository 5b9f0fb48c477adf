package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
)

// AdminHandler serves the operator surface behind the basic-auth gateway.
type AdminHandler struct {
	orgs    repository.OrganizationRepository
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(orgs repository.OrganizationRepository, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{orgs: orgs, metrics: metrics}
}

// ListOrganizations GET /admin/organizations.
func (h *AdminHandler) ListOrganizations(c *fiber.Ctx) error {
	orgs, err := h.orgs.List(c.UserContext(), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	items := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		items = append(items, dto.OrganizationResponse{
			ID:        org.ID,
			Name:      org.Name,
			CreatedAt: org.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetOrganization GET /admin/organizations/:id.
func (h *AdminHandler) GetOrganization(c *fiber.Ctx) error {
	org, err := h.orgs.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
	}})
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errorCounts := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": dto.MetricsResponse{
		Requests: requests,
		Errors:   errorCounts,
	}})
}
