package ledgerHandler

import (
	ledger "ExpenseTracker/internal/api/ledger"
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/handlerUtil"
	jwtPkg "ExpenseTracker/pkg/jwt"
	"ExpenseTracker/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *LedgerHandler) CreateWallet(ctx *fiber.Ctx) error {
	return h.upsertWallet(ctx, "")
}

func (h *LedgerHandler) UpdateWallet(ctx *fiber.Ctx) error {
	walletID := ctx.Params("id")
	if walletID == "" {
		requestID := h.middleware.GetRequestID(ctx)
		return handlerUtil.New(h.log).HandleValidationError(ctx, requestID,
			errors.New("wallet id is required"), ctx.Path())
	}

	return h.upsertWallet(ctx, walletID)
}

func (h *LedgerHandler) upsertWallet(ctx *fiber.Ctx, walletID string) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing wallet upsert request")

	var req ledger.UpsertWalletRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	// Name is required on create only; updates may change just the image.
	if walletID == "" {
		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	image, err := ctx.FormFile("image")
	if err != nil {
		image = nil
	}

	wallet, err := h.ledgerService.CreateUpdateWallet(c, userData.ID, walletID, req, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_update_wallet")
	}

	status := fiber.StatusOK
	if walletID == "" {
		status = fiber.StatusCreated
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, status, wallet)
	}
}

func (h *LedgerHandler) GetWallets(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	wallets, err := h.ledgerService.GetWallets(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_wallets")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, wallets)
	}
}

func (h *LedgerHandler) GetWallet(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	walletID := ctx.Params("id")
	if walletID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("wallet id is required"), ctx.Path())
	}

	wallet, err := h.ledgerService.GetWalletByID(c, userData.ID, walletID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_wallet")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, wallet)
	}
}

func (h *LedgerHandler) DeleteWallet(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	walletID := ctx.Params("id")
	if walletID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("wallet id is required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"wallet_id":  walletID,
	}).Debug("Deleting wallet")

	if err := h.ledgerService.DeleteWallet(c, userData.ID, walletID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_wallet")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Wallet deleted successfully",
		})
	}
}
