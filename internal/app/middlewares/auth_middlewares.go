package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type AuthMiddleware struct {
	authService    *services.AuthService
	accountService *services.AccountService
}

func NewAuthMiddleware(authService *services.AuthService, accountService *services.AccountService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, accountService: accountService}
}

func (m *AuthMiddleware) AuthAccount(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	claims, err := m.authService.ParseToken(token)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid or expired token"))
	}

	account, err := m.accountService.GetAccount(claims.Subject)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Account no longer exists"))
	}

	if account.Status != models.AccountStatusActive {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Account is inactive"))
	}

	c.Locals("account", account)

	return c.Next()
}

// RequireRole guards a route group behind one or more account roles. It
// must run after AuthAccount.
func (m *AuthMiddleware) RequireRole(roles ...models.AccountRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := c.Locals("account").(*models.Account)
		if !ok || account == nil {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
		}
		for _, role := range roles {
			if account.Role == role {
				return c.Next()
			}
		}
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient permissions"))
	}
}
