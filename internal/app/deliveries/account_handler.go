package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type AccountHandler struct {
	accountService *services.AccountService
	authMiddleware *middlewares.AuthMiddleware
}

func NewAccountHandler(accountService *services.AccountService, authMiddleware *middlewares.AuthMiddleware) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		authMiddleware: authMiddleware,
	}
}

func (h *AccountHandler) RegisterRoutes(router fiber.Router) {
	accountGroup := router.Group("/accounts")
	accountGroup.Use(h.authMiddleware.AuthAccount)

	accountGroup.Get("/me", h.GetMe)
	accountGroup.Get("/me/points", h.GetMyPoints)
	accountGroup.Patch("/me", h.UpdateMe)

	adminOnly := h.authMiddleware.RequireRole(models.AccountRoleAdmin)
	accountGroup.Get("/", adminOnly, h.GetAccounts)
	accountGroup.Get("/:id", adminOnly, h.GetAccount)
	accountGroup.Patch("/:id", adminOnly, h.UpdateAccount)
	accountGroup.Patch("/:id/status", adminOnly, h.ToggleStatus)
	accountGroup.Delete("/:id", adminOnly, h.DeleteAccount)
}

func (h *AccountHandler) GetMe(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)
	return pkg.SuccessResponse(c, account)
}

func (h *AccountHandler) GetMyPoints(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	points, err := h.accountService.GetPoints(account.ID.String())
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, fiber.Map{"points": points})
}

func (h *AccountHandler) UpdateMe(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	// Self-service updates cannot touch balances or status.
	req.Credits = nil
	req.Points = nil
	req.Status = nil

	updated, err := h.accountService.UpdateAccount(account.ID.String(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, updated)
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	role := models.AccountRole(c.Query("role", string(models.AccountRoleUser)))

	var status *models.AccountStatus
	if statusStr := c.Query("status"); statusStr != "" {
		accountStatus := models.AccountStatus(statusStr)
		status = &accountStatus
	}

	accounts, err := h.accountService.GetAccountsByRole(role, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, accounts)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.accountService.GetAccount(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	var req models.AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	account, err := h.accountService.UpdateAccount(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AccountHandler) ToggleStatus(c *fiber.Ctx) error {
	account, err := h.accountService.ToggleStatus(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.accountService.DeleteAccount(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Account deleted")
}
