package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
)

// CronKeyMiddleware guards the manual evaluator trigger behind a shared key.
type CronKeyMiddleware struct{}

func NewCronKeyMiddleware() *CronKeyMiddleware {
	return &CronKeyMiddleware{}
}

func (m *CronKeyMiddleware) AuthCronKey(c *fiber.Ctx) error {
	expected := infrastructures.Config.CRON_TRIGGER_KEY
	if expected == "" {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Manual trigger is disabled"))
	}

	key := c.Get("X-Cron-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid cron key"))
	}

	return c.Next()
}
