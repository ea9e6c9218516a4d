package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type RewardHandler struct {
	rewardService *services.RewardService
	authMiddleware *middlewares.AuthMiddleware
}

func NewRewardHandler(rewardService *services.RewardService, authMiddleware *middlewares.AuthMiddleware) *RewardHandler {
	return &RewardHandler{
		rewardService:  rewardService,
		authMiddleware: authMiddleware,
	}
}

func (h *RewardHandler) RegisterRoutes(router fiber.Router) {
	rewardGroup := router.Group("/rewards")
	rewardGroup.Use(h.authMiddleware.AuthAccount)

	rewardGroup.Get("/", h.GetRewards)
	rewardGroup.Get("/:id", h.GetReward)

	manage := h.authMiddleware.RequireRole(models.AccountRoleAdvisor, models.AccountRoleAdmin)
	rewardGroup.Post("/", manage, h.CreateReward)
	rewardGroup.Patch("/:id", manage, h.UpdateReward)
	rewardGroup.Delete("/:id", manage, h.DeleteReward)
	rewardGroup.Post("/:id/codes", manage, h.AddCodes)
	rewardGroup.Delete("/:id/codes", manage, h.RemoveCode)
}

func (h *RewardHandler) GetRewards(c *fiber.Ctx) error {
	rewards, err := h.rewardService.GetRewardsWithAvailableQuantity()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, rewards)
}

func (h *RewardHandler) GetReward(c *fiber.Ctx) error {
	reward, err := h.rewardService.GetReward(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	var req models.RewardCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	reward, err := h.rewardService.CreateReward(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) UpdateReward(c *fiber.Ctx) error {
	var req models.RewardUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	reward, err := h.rewardService.UpdateReward(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) DeleteReward(c *fiber.Ctx) error {
	if err := h.rewardService.DeleteReward(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Reward deleted")
}

// AddCodes accepts both a single code and a batch on the same endpoint.
func (h *RewardHandler) AddCodes(c *fiber.Ctx) error {
	var req models.RewardAddCodesRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if len(req.Codes) == 0 {
		var single models.RewardAddCodeRequest
		if err := c.BodyParser(&single); err == nil && single.Code != "" {
			reward, err := h.rewardService.AddCode(c.Params("id"), &single)
			if err != nil {
				return pkg.ErrorResponse(c, err)
			}
			return pkg.SuccessResponse(c, reward)
		}
	}

	reward, err := h.rewardService.AddCodes(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) RemoveCode(c *fiber.Ctx) error {
	var req models.RewardRemoveCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	reward, err := h.rewardService.RemoveCode(c.Params("id"), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}
