package ledgerHandler

import (
	ledger "ExpenseTracker/internal/api/ledger"
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/handlerUtil"
	jwtPkg "ExpenseTracker/pkg/jwt"
	"ExpenseTracker/pkg/log"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *LedgerHandler) CreateTransaction(ctx *fiber.Ctx) error {
	return h.upsertTransaction(ctx, "")
}

func (h *LedgerHandler) UpdateTransaction(ctx *fiber.Ctx) error {
	transactionID := ctx.Params("id")
	if transactionID == "" {
		requestID := h.middleware.GetRequestID(ctx)
		return handlerUtil.New(h.log).HandleValidationError(ctx, requestID,
			errors.New("transaction id is required"), ctx.Path())
	}

	return h.upsertTransaction(ctx, transactionID)
}

func (h *LedgerHandler) upsertTransaction(ctx *fiber.Ctx, transactionID string) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing transaction upsert request")

	var req ledger.UpsertTransactionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// Optional receipt image; absent on plain JSON requests.
	image, err := ctx.FormFile("image")
	if err != nil {
		image = nil
	}

	transaction, err := h.ledgerService.CreateOrUpdateTransaction(c, userData.ID, transactionID, req, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_or_update_transaction")
	}

	status := fiber.StatusOK
	if transactionID == "" {
		status = fiber.StatusCreated
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, status, transaction)
	}
}

func (h *LedgerHandler) DeleteTransaction(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	transactionID := ctx.Params("id")
	walletID := ctx.Query("wallet_id")
	if transactionID == "" || walletID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("transaction id and wallet_id are required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id":     requestID,
		"transaction_id": transactionID,
		"wallet_id":      walletID,
	}).Debug("Deleting transaction")

	if err := h.ledgerService.DeleteTransaction(c, userData.ID, transactionID, walletID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_transaction")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Transaction deleted successfully",
		})
	}
}

func (h *LedgerHandler) GetTransactions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	search := ctx.Query("search")

	history, err := h.ledgerService.GetTransactions(c, userData.ID, search, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_transactions")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history)
	}
}
