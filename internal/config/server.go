package config

import (
	"ExpenseTracker/database/postgres"
	ledgerHandler "ExpenseTracker/internal/api/ledger/handler"
	ledgerRepository "ExpenseTracker/internal/api/ledger/repository"
	ledgerService "ExpenseTracker/internal/api/ledger/service"
	userHandler "ExpenseTracker/internal/api/user/handler"
	userRepository "ExpenseTracker/internal/api/user/repository"
	userService "ExpenseTracker/internal/api/user/service"
	"ExpenseTracker/internal/middleware"
	"ExpenseTracker/pkg/livefeed"
	"ExpenseTracker/pkg/media"
	"ExpenseTracker/pkg/redis"
	"ExpenseTracker/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	mediaClient media.ItfMedia
	walletFeed  livefeed.IFeed
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMediaClient() ServerOption {
	return func(s *Server) error {
		client, err := media.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize media client: %v", err)
			}
			return fmt.Errorf("failed to create media client: %w", err)
		}
		s.mediaClient = client
		return nil
	}
}

func WithWalletFeed(feed livefeed.IFeed) ServerOption {
	return func(s *Server) error {
		s.walletFeed = feed
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Ledger domain
	ledgerRepo := ledgerRepository.New(s.db, s.log)
	ledgerServices := ledgerService.NewLedgerService(s.log, ledgerRepo, s.mediaClient, s.redisServer, s.walletFeed, s.utils)
	ledgerHandlers := ledgerHandler.New(s.log, s.validator, s.middleware, ledgerServices)

	// User domain
	userRepo := userRepository.New(s.db, s.log)
	userServices := userService.NewUserService(s.log, userRepo, s.mediaClient, s.utils)
	userHandlers := userHandler.New(s.log, s.validator, s.middleware, userServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, ledgerHandlers, userHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
