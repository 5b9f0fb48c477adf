package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages the org-scoped ticket, comment and activity
// endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
	activity *service.ActivityService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, comments *service.CommentService, activity *service.ActivityService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, comments: comments, activity: activity}
}

// Create POST /orgs/:orgID/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		LeadID:         req.LeadID,
		Subject:        req.Subject,
		Description:    req.Description,
		Priority:       domain.TicketPriority(req.Priority),
		Status:         domain.TicketStatus(req.Status),
		ActorProfileID: actorID(orgCtx),
	}
	ticket, err := h.tickets.Create(c.UserContext(), orgCtx.OrgID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /orgs/:orgID/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	var status *domain.TicketStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.TicketStatus(raw)
		status = &s
	}
	limit := parseInt(c.Query("limit"), 0)

	tickets, err := h.tickets.List(c.UserContext(), orgCtx.OrgID, status, limit)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /orgs/:orgID/tickets/:id returns the ticket with both ledgers.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	ticket, err := h.tickets.Get(c.UserContext(), orgCtx.OrgID, c.Params("id"))
	if err != nil {
		return err
	}
	comments, commentWarnings, err := h.comments.List(c.UserContext(), orgCtx.OrgID, ticket.ID, 0)
	if err != nil {
		return err
	}
	activity, activityWarnings, err := h.activity.List(c.UserContext(), orgCtx.OrgID, ticket.ID, 0)
	if err != nil {
		return err
	}

	detail := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		Comments:       commentResponses(comments),
		Activity:       activityResponses(activity),
	}
	return c.JSON(responseWithWarnings(detail, append(commentWarnings, activityWarnings...)))
}

// Update PATCH /orgs/:orgID/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	patch := domain.TicketPatch{
		Subject:     req.Subject,
		Description: req.Description,
	}
	if req.Status != nil {
		s := domain.TicketStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.TicketPriority(*req.Priority)
		patch.Priority = &p
	}

	ticket, err := h.tickets.Update(c.UserContext(), orgCtx.OrgID, c.Params("id"), patch, actorID(orgCtx))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AddComment POST /orgs/:orgID/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok || orgCtx.ProfileID == "" {
		return errorutil.NewUnauthorized("authenticated profile required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Add(c.UserContext(), orgCtx.OrgID, c.Params("id"), orgCtx.ProfileID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}})
}

// ListComments GET /orgs/:orgID/tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	comments, warnings, err := h.comments.List(c.UserContext(), orgCtx.OrgID, c.Params("id"), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(responseWithWarnings(commentResponses(comments), warnings))
}

// DeleteComment DELETE /orgs/:orgID/tickets/:id/comments/:commentID.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	err := h.comments.Delete(c.UserContext(), orgCtx.OrgID, c.Params("id"), c.Params("commentID"), actorID(orgCtx))
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListActivity GET /orgs/:orgID/tickets/:id/activity.
func (h *TicketsHandler) ListActivity(c *fiber.Ctx) error {
	orgCtx, ok := auth.OrgFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("organization context required")
	}
	entries, warnings, err := h.activity.List(c.UserContext(), orgCtx.OrgID, c.Params("id"), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(responseWithWarnings(activityResponses(entries), warnings))
}

func actorID(orgCtx *auth.OrgContext) *string {
	if orgCtx.ProfileID == "" {
		return nil
	}
	id := orgCtx.ProfileID
	return &id
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func responseWithWarnings(data any, warnings []string) fiber.Map {
	resp := fiber.Map{"data": data}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return resp
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		OrgID:       ticket.OrgID,
		LeadID:      ticket.LeadID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func profileResponse(profile *domain.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:       profile.ID,
		FullName: profile.FullName,
		Email:    profile.Email,
	}
}

func commentResponses(comments []domain.CommentWithAuthor) []dto.CommentResponse {
	result := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, dto.CommentResponse{
			ID:        comment.ID,
			TicketID:  comment.TicketID,
			Body:      comment.Body,
			Author:    profileResponse(comment.Author),
			CreatedAt: comment.CreatedAt,
		})
	}
	return result
}

func activityResponses(entries []domain.ActivityWithActor) []dto.ActivityResponse {
	result := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.ActivityResponse{
			ID:        entry.ID,
			TicketID:  entry.TicketID,
			EventType: entry.EventType,
			Summary:   entry.Summary,
			Actor:     profileResponse(entry.Actor),
			Diff:      entry.Diff,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result
}
