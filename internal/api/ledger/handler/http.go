package ledgerHandler

import (
	ledgerService "ExpenseTracker/internal/api/ledger/service"
	"ExpenseTracker/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type LedgerHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	ledgerService ledgerService.ILedgerService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ls ledgerService.ILedgerService,
) *LedgerHandler {
	return &LedgerHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		ledgerService: ls,
	}
}

func (h *LedgerHandler) Start(srv fiber.Router) {
	wallets := srv.Group("/wallets")

	wallets.Use("/live", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	wallets.Get("/live", h.middleware.NewTokenMiddleware, websocket.New(h.LiveWallets))

	wallets.Post("", h.middleware.NewTokenMiddleware, h.CreateWallet)
	wallets.Get("", h.middleware.NewTokenMiddleware, h.GetWallets)
	wallets.Get("/:id", h.middleware.NewTokenMiddleware, h.GetWallet)
	wallets.Patch("/:id", h.middleware.NewTokenMiddleware, h.UpdateWallet)
	wallets.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteWallet)

	transactions := srv.Group("/transactions")

	transactions.Post("", h.middleware.NewTokenMiddleware, h.CreateTransaction)
	transactions.Get("", h.middleware.NewTokenMiddleware, h.GetTransactions)
	transactions.Patch("/:id", h.middleware.NewTokenMiddleware, h.UpdateTransaction)
	transactions.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteTransaction)

	statistics := srv.Group("/statistics")

	statistics.Get("/:period", h.middleware.NewTokenMiddleware, h.GetPeriodStats)
}
