package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	redemptionService *services.RedemptionService
	authMiddleware    *middlewares.AuthMiddleware
}

func NewAssignmentHandler(assignmentService *services.AssignmentService, redemptionService *services.RedemptionService, authMiddleware *middlewares.AuthMiddleware) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		redemptionService: redemptionService,
		authMiddleware:    authMiddleware,
	}
}

func (h *AssignmentHandler) RegisterRoutes(router fiber.Router) {
	assignmentGroup := router.Group("/assignments")
	assignmentGroup.Use(h.authMiddleware.AuthAccount)

	assignmentGroup.Get("/mine", h.GetMyAssignments)
	assignmentGroup.Get("/mine/approved", h.GetMyApprovedAssignments)
	assignmentGroup.Post("/:id/redeem", h.Redeem)

	manage := h.authMiddleware.RequireRole(models.AccountRoleAdvisor, models.AccountRoleAdmin)
	assignmentGroup.Get("/", manage, h.GetAssignments)
	assignmentGroup.Get("/:id", manage, h.GetAssignment)
	assignmentGroup.Post("/", manage, h.CreateAssignment)
	assignmentGroup.Patch("/:id", manage, h.UpdateAssignment)
	assignmentGroup.Delete("/:id", manage, h.DeleteAssignment)

	// Advisor approval of a pending assignment or challenge.
	redemptionGroup := router.Group("/redemptions")
	redemptionGroup.Use(h.authMiddleware.AuthAccount)
	redemptionGroup.Post("/:targetId", h.authMiddleware.RequireRole(models.AccountRoleAdvisor, models.AccountRoleAdmin), h.AdvisorRedeem)
}

func (h *AssignmentHandler) CreateAssignment(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.RewardAssignmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	assignment, err := h.assignmentService.CreateAssignment(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignment)
}

func (h *AssignmentHandler) GetAssignments(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	createdBy := &account.ID
	if account.Role == models.AccountRoleAdmin {
		// Admins see every assignment.
		createdBy = nil
	}

	assignments, err := h.assignmentService.GetAssignments(createdBy)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignments)
}

func (h *AssignmentHandler) GetAssignment(c *fiber.Ctx) error {
	assignment, err := h.assignmentService.GetAssignment(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignment)
}

func (h *AssignmentHandler) GetMyAssignments(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	assignments, err := h.assignmentService.GetAssignmentsByAssignee(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignments)
}

func (h *AssignmentHandler) GetMyApprovedAssignments(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	assignments, err := h.assignmentService.GetApprovedByAssignee(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignments)
}

func (h *AssignmentHandler) UpdateAssignment(c *fiber.Ctx) error {
	var req models.RewardAssignmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	assignment, err := h.assignmentService.UpdateAssignment(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, assignment)
}

func (h *AssignmentHandler) DeleteAssignment(c *fiber.Ctx) error {
	if err := h.assignmentService.DeleteAssignment(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Assignment deleted")
}

// Redeem is the assignee-side redemption step: it either sends the
// assignment to the advisor or hands out codes once approved.
func (h *AssignmentHandler) Redeem(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	result, err := h.redemptionService.AssigneeRedeem(account.ID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

// AdvisorRedeem approves a pending assignment or reward-gated challenge,
// allocating codes and debiting the advisor's credits.
func (h *AssignmentHandler) AdvisorRedeem(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	result, err := h.redemptionService.AdvisorRedeem(account.ID, c.Params("targetId"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
