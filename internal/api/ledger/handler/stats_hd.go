package ledgerHandler

import (
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/handlerUtil"
	jwtPkg "ExpenseTracker/pkg/jwt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *LedgerHandler) GetPeriodStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	period := ctx.Params("period")

	stats, err := h.ledgerService.GetPeriodStats(c, userData.ID, period)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_period_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
	}
}
