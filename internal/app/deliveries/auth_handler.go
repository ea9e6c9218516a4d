package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type AuthHandler struct {
	authService         *services.AuthService
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewAuthHandler(authService *services.AuthService, rateLimitMiddleware *middlewares.RateLimitMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")
	authGroup.Use(h.rateLimitMiddleware.LimitByIP(middlewares.AuthLimit))

	authGroup.Post("/register", h.Register)
	authGroup.Post("/verify-email", h.VerifyEmail)
	authGroup.Post("/create-password", h.CreatePassword)
	authGroup.Post("/login", h.Login)
	authGroup.Post("/password-reset", h.RequestPasswordReset)
	authGroup.Post("/password-reset/verify", h.VerifyResetCode)
	authGroup.Post("/password-reset/confirm", h.ResetPassword)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.AccountCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	account, err := h.authService.Register(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req models.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	account, err := h.authService.VerifyEmail(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AuthHandler) CreatePassword(c *fiber.Ctx) error {
	var req models.CreatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	account, err := h.authService.CreatePassword(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, account)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req models.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if err := h.authService.RequestPasswordReset(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "If the email is registered, a reset code has been sent")
}

func (h *AuthHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req models.VerifyResetCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if err := h.authService.VerifyResetCode(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Reset code verified")
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Password has been reset")
}
