package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	authMiddleware   *middlewares.AuthMiddleware
}

func NewChallengeHandler(challengeService *services.ChallengeService, authMiddleware *middlewares.AuthMiddleware) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		authMiddleware:   authMiddleware,
	}
}

func (h *ChallengeHandler) RegisterRoutes(router fiber.Router) {
	challengeGroup := router.Group("/challenges")
	challengeGroup.Use(h.authMiddleware.AuthAccount)

	challengeGroup.Get("/mine", h.GetMyChallenges)
	challengeGroup.Post("/:id/redeem", h.Redeem)

	manage := h.authMiddleware.RequireRole(models.AccountRoleAdvisor, models.AccountRoleAdmin)
	challengeGroup.Get("/", manage, h.GetChallenges)
	challengeGroup.Get("/:id", manage, h.GetChallenge)
	challengeGroup.Post("/", manage, h.CreateChallenge)
	challengeGroup.Patch("/:id", manage, h.UpdateChallenge)
	challengeGroup.Delete("/:id", manage, h.DeleteChallenge)
}

func (h *ChallengeHandler) CreateChallenge(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.ChallengeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	challenge, err := h.challengeService.CreateChallenge(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, challenge)
}

func (h *ChallengeHandler) GetChallenges(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	challenges, err := h.challengeService.GetChallengesByCreator(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, challenges)
}

func (h *ChallengeHandler) GetChallenge(c *fiber.Ctx) error {
	challenge, err := h.challengeService.GetChallenge(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, challenge)
}

func (h *ChallengeHandler) GetMyChallenges(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	challenges, err := h.challengeService.GetChallengesByUser(account.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, challenges)
}

func (h *ChallengeHandler) UpdateChallenge(c *fiber.Ctx) error {
	var req models.ChallengeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	challenge, err := h.challengeService.UpdateChallenge(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, challenge)
}

func (h *ChallengeHandler) DeleteChallenge(c *fiber.Ctx) error {
	if err := h.challengeService.DeleteChallenge(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Challenge deleted")
}

func (h *ChallengeHandler) Redeem(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	result, err := h.challengeService.RedeemChallenge(account.ID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
