package deliveries

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/middlewares"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/app/services"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	authMiddleware     *middlewares.AuthMiddleware
}

func NewTransactionHandler(transactionService *services.TransactionService, authMiddleware *middlewares.AuthMiddleware) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		authMiddleware:     authMiddleware,
	}
}

func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	transactionGroup := router.Group("/transactions")
	transactionGroup.Use(h.authMiddleware.AuthAccount)

	transactionGroup.Get("/", h.GetTransactions)
	transactionGroup.Get("/range", h.GetTransactionsByDateRange)
	transactionGroup.Post("/", h.CreateTransaction)
	transactionGroup.Post("/extract", h.CreateTransactionFromText)

	financeGroup := router.Group("/finance")
	financeGroup.Use(h.authMiddleware.AuthAccount)
	financeGroup.Post("/monthly-income", h.SetMonthlyIncome)
	financeGroup.Post("/monthly-expense", h.SetMonthlyExpense)
	financeGroup.Post("/save-amount", h.SetSaveAmount)
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.TransactionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	transaction, err := h.transactionService.CreateTransaction(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, transaction)
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	result, err := h.transactionService.GetTransactions(account.ID, &models.PaginationRequest{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *TransactionHandler) GetTransactionsByDateRange(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	from, err := time.Parse(pkg.DateLayout, c.Query("from"))
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid from date"))
	}
	to, err := time.Parse(pkg.DateLayout, c.Query("to"))
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid to date"))
	}

	transactions, err := h.transactionService.GetTransactionsByDateRange(account.ID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, transactions)
}

func (h *TransactionHandler) CreateTransactionFromText(c *fiber.Ctx) error {
	account := c.Locals("account").(*models.Account)

	var req models.TransactionExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	transaction, err := h.transactionService.CreateTransactionFromText(account.ID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, transaction)
}

func (h *TransactionHandler) SetMonthlyIncome(c *fiber.Ctx) error {
	return h.setFinanceField(c, services.ExtractFieldMonthlyIncome)
}

func (h *TransactionHandler) SetMonthlyExpense(c *fiber.Ctx) error {
	return h.setFinanceField(c, services.ExtractFieldMonthlyExpense)
}

func (h *TransactionHandler) SetSaveAmount(c *fiber.Ctx) error {
	return h.setFinanceField(c, services.ExtractFieldSaveAmount)
}

func (h *TransactionHandler) setFinanceField(c *fiber.Ctx, field string) error {
	account := c.Locals("account").(*models.Account)

	var req models.FinanceTextRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	updated, err := h.transactionService.SetMonthlyFinance(account.ID, field, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, updated)
}
