package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type MerchantHandler struct {
	merchantService *services.MerchantService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewMerchantHandler(merchantService *services.MerchantService, authMiddleware *middlewares.AuthMiddleware) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		authMiddleware:  authMiddleware,
	}
}

func (h *MerchantHandler) RegisterRoutes(router fiber.Router) {
	merchantGroup := router.Group("/merchants")
	merchantGroup.Use(h.authMiddleware.AuthAccount)

	merchantGroup.Get("/", h.GetAvailableMerchants)
	merchantGroup.Post("/:id/redeem", h.Redeem)

	adminOnly := h.authMiddleware.RequireRole(models.AccountRoleAdmin)
	merchantGroup.Get("/all", adminOnly, h.GetMerchants)
	merchantGroup.Get("/:id", adminOnly, h.GetMerchant)
	merchantGroup.Post("/", adminOnly, h.CreateMerchant)
	merchantGroup.Patch("/:id", adminOnly, h.UpdateMerchant)
	merchantGroup.Delete("/:id", adminOnly, h.DeleteMerchant)
}

func (h *MerchantHandler) GetAvailableMerchants(c *fiber.Ctx) error {
	merchants, err := h.merchantService.GetAvailableMerchants()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchants)
}

func (h *MerchantHandler) GetMerchants(c *fiber.Ctx) error {
	merchants, err := h.merchantService.GetMerchants()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchants)
}

func (h *MerchantHandler) GetMerchant(c *fiber.Ctx) error {
	merchant, err := h.merchantService.GetMerchant(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}

func (h *MerchantHandler) CreateMerchant(c *fiber.Ctx) error {
	var req models.MerchantCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	merchant, err := h.merchantService.CreateMerchant(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}

func (h *MerchantHandler) UpdateMerchant(c *fiber.Ctx) error {
	var req models.MerchantUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	merchant, err := h.merchantService.UpdateMerchant(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}

func (h *MerchantHandler) DeleteMerchant(c *fiber.Ctx) error {
	if err := h.merchantService.DeleteMerchant(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Merchant deleted")
}

func (h *MerchantHandler) Redeem(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	result, err := h.merchantService.RedeemMerchant(account.ID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
