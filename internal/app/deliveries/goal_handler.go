package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type GoalHandler struct {
	goalService    *services.GoalService
	authMiddleware *middlewares.AuthMiddleware
}

func NewGoalHandler(goalService *services.GoalService, authMiddleware *middlewares.AuthMiddleware) *GoalHandler {
	return &GoalHandler{
		goalService:    goalService,
		authMiddleware: authMiddleware,
	}
}

func (h *GoalHandler) RegisterRoutes(router fiber.Router) {
	goalGroup := router.Group("/goals")
	goalGroup.Use(h.authMiddleware.AuthAccount)

	goalGroup.Get("/", h.GetGoals)
	goalGroup.Get("/:id", h.GetGoal)
	goalGroup.Post("/", h.CreateGoal)
	goalGroup.Patch("/:id", h.UpdateGoal)
	goalGroup.Delete("/:id", h.DeleteGoal)

	savingGroup := router.Group("/savings")
	savingGroup.Use(h.authMiddleware.AuthAccount)

	savingGroup.Get("/", h.GetSavings)
	savingGroup.Post("/", h.CreateSaving)
	savingGroup.Delete("/:id", h.DeleteSaving)
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.GoalCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	goal, err := h.goalService.CreateGoal(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, goal)
}

func (h *GoalHandler) GetGoals(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	goals, err := h.goalService.GetGoals(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, goals)
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	goal, err := h.goalService.GetGoal(account.ID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, goal)
}

func (h *GoalHandler) UpdateGoal(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.GoalUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	goal, err := h.goalService.UpdateGoal(account.ID, c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, goal)
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	if err := h.goalService.DeleteGoal(account.ID, c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Goal deleted")
}

func (h *GoalHandler) CreateSaving(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.SavingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	saving, err := h.goalService.CreateSaving(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, saving)
}

func (h *GoalHandler) GetSavings(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	savings, err := h.goalService.GetSavings(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, savings)
}

func (h *GoalHandler) DeleteSaving(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	if err := h.goalService.DeleteSaving(account.ID, c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Saving deleted")
}
