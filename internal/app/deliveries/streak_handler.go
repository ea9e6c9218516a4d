package deliveries

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

// StreakHandler exposes a manual trigger for the nightly evaluation,
// guarded by the shared cron key. Useful for backfills and operations.
type StreakHandler struct {
	streakService     *services.StreakService
	cronKeyMiddleware *middlewares.CronKeyMiddleware
}

func NewStreakHandler(streakService *services.StreakService, cronKeyMiddleware *middlewares.CronKeyMiddleware) *StreakHandler {
	return &StreakHandler{
		streakService:     streakService,
		cronKeyMiddleware: cronKeyMiddleware,
	}
}

func (h *StreakHandler) RegisterRoutes(router fiber.Router) {
	cronGroup := router.Group("/cron")
	cronGroup.Post("/streaks", h.cronKeyMiddleware.AuthCronKey, h.RunStreaks)
}

func (h *StreakHandler) RunStreaks(c *fiber.Ctx) error {
	day := time.Now().AddDate(0, 0, -1)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(pkg.DateLayout, dateStr)
		if err != nil {
			return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid date, expected YYYY-MM-DD"))
		}
		day = parsed
	}

	if err := h.streakService.Run(c.Context(), day); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Streak evaluation completed")
}
