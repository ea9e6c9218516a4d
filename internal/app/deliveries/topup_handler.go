package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type TopupHandler struct {
	topupService        *services.TopupService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewTopupHandler(topupService *services.TopupService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *TopupHandler {
	return &TopupHandler{
		topupService:        topupService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *TopupHandler) RegisterRoutes(router fiber.Router) {
	topupGroup := router.Group("/topups")

	topupGroup.Post("/",
		h.authMiddleware.AuthAccount,
		h.authMiddleware.RequireRole(models.AccountRoleAdvisor, models.AccountRoleAdmin),
		h.CreateCheckoutSession)

	// Stripe calls this; authentication is the signature header.
	topupGroup.Post("/webhook",
		h.rateLimitMiddleware.LimitByIP(middlewares.WebhookLimit),
		h.HandleWebhook)
}

func (h *TopupHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req services.TopupCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.topupService.CreateCheckoutSession(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *TopupHandler) HandleWebhook(c *fiber.Ctx) error {
	if err := h.topupService.HandleWebhook(c.Body(), c.Get("Stripe-Signature")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "ok")
}
