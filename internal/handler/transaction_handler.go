package handler

import (
	"github.com/chodocu/chodocu-backend/internal/middleware"
	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/service"
	"github.com/chodocu/chodocu-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	validator          *utils.Validator
}

func NewTransactionHandler(transactionService *service.TransactionService, validator *utils.Validator) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		validator:          validator,
	}
}

func (h *TransactionHandler) CreateDeposit(c *fiber.Ctx) error {
	var req models.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	txn, checkout, err := h.transactionService.CreateDeposit(middleware.UserIDFromCtx(c), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(fiber.Map{
		"transaction": txn,
		"checkout":    checkout,
	}, "Deposit created"))
}

// StripeWebhook is called by Stripe, not by our clients. It always answers
// 200 on processed events so Stripe stops retrying.
func (h *TransactionHandler) StripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if err := h.transactionService.HandleStripeWebhook(c.Body(), signature); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("webhook verification failed"))
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *TransactionHandler) GetMyTransactions(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	status := models.TransactionStatus(c.Query("status"))

	transactions, total, err := h.transactionService.GetUserTransactions(middleware.UserIDFromCtx(c), status, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: transactions,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid transaction id")
	}

	txn, err := h.transactionService.GetTransaction(uint(id), middleware.UserIDFromCtx(c), middleware.IsAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(txn, ""))
}

func (h *TransactionHandler) GetAllTransactions(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	transactions, total, err := h.transactionService.GetAllTransactions(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.PagedResponse{
		Data: transactions,
		Meta: models.NewMeta(total, page, limit),
	}, ""))
}

func (h *TransactionHandler) ReviewDeposit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid transaction id")
	}

	var req models.ReviewTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	txn, err := h.transactionService.ReviewDeposit(uint(id), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(txn, "Transaction reviewed"))
}
