package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"github.com/moneykaki/kaki-core/internal/app/deliveries"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/services"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
)

// Application represents the main application container for kaki-core
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	AuthHandler         *deliveries.AuthHandler
	AccountHandler      *deliveries.AccountHandler
	RewardHandler       *deliveries.RewardHandler
	AssignmentHandler   *deliveries.AssignmentHandler
	ChallengeHandler    *deliveries.ChallengeHandler
	MerchantHandler     *deliveries.MerchantHandler
	TransactionHandler  *deliveries.TransactionHandler
	GoalHandler         *deliveries.GoalHandler
	TopupHandler        *deliveries.TopupHandler
	StreakHandler       *deliveries.StreakHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
	StreakService       *services.StreakService
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit))

	app.HealthHandler.RegisterRoutes(router)
	app.AuthHandler.RegisterRoutes(router)
	app.AccountHandler.RegisterRoutes(router)
	app.RewardHandler.RegisterRoutes(router)
	app.AssignmentHandler.RegisterRoutes(router)
	app.ChallengeHandler.RegisterRoutes(router)
	app.MerchantHandler.RegisterRoutes(router)
	app.TransactionHandler.RegisterRoutes(router)
	app.GoalHandler.RegisterRoutes(router)
	app.TopupHandler.RegisterRoutes(router)
	app.StreakHandler.RegisterRoutes(router)
}

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewStripeClient,
	wire.Value("kaki"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewMailService,
	wire.Bind(new(services.Mailer), new(*services.MailService)),
	services.NewTextAgentService,
	wire.Bind(new(services.TextExtractor), new(*services.TextAgentService)),
	services.NewAuthService,
	services.NewAccountService,
	services.NewRewardService,
	services.NewAssignmentService,
	services.NewRedemptionService,
	services.NewChallengeService,
	services.NewMerchantService,
	services.NewTransactionService,
	services.NewTopupService,
	services.NewGoalService,
	services.NewStreakService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewCronKeyMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewAuthHandler,
	deliveries.NewAccountHandler,
	deliveries.NewRewardHandler,
	deliveries.NewAssignmentHandler,
	deliveries.NewChallengeHandler,
	deliveries.NewMerchantHandler,
	deliveries.NewTransactionHandler,
	deliveries.NewGoalHandler,
	deliveries.NewTopupHandler,
	deliveries.NewStreakHandler,
	wire.Struct(new(Application), "*"),
)
