package userHandler

import (
	userService "ExpenseTracker/internal/api/user/service"
	"ExpenseTracker/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	userService userService.IUserService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	us userService.IUserService,
) *UserHandler {
	return &UserHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		userService: us,
	}
}

func (h *UserHandler) Start(srv fiber.Router) {
	users := srv.Group("/users")

	users.Get("/me", h.middleware.NewTokenMiddleware, h.GetProfile)
	users.Patch("/me", h.middleware.NewTokenMiddleware, h.UpdateProfile)
}
