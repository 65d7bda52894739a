package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/delivery/http/handler"
	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/infrastructure/metrics"
	"contract-workspace/internal/usecase"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Contract     *handler.ContractHandler
	Document     *handler.DocumentHandler
	Esign        *handler.EsignHandler
	Log          *handler.LogHandler
}

type Router struct {
	app      *fiber.App
	config   *config.Config
	handlers Handlers
	auth     usecase.AuthUsecase
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	auth usecase.AuthUsecase,
	m *metrics.Metrics,
	log *zap.Logger,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(cfg.Document.MaxBytes) + 1<<20,
		// route params and query values are kept in views and caches
		Immutable:    true,
	})

	return &Router{
		app:      app,
		config:   cfg,
		handlers: handlers,
		auth:     auth,
		metrics:  m,
		logger:   log,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.App.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: r.config.App.AllowOrigins != "*",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	h := r.handlers

	r.app.Get("/health", h.Health.Health)
	r.app.Get("/metrics", adaptor.HTTPHandler(r.metrics.Handler()))

	api := r.app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.Post("/login", h.Auth.Login)
		auth.Post("/register", h.Auth.Register)
	}
	api.Get("/organizations/domain/:email", h.Organization.Domain)

	// Everything below needs a live session
	private := api.Group("", middleware.RequireSession(r.auth, r.config.Session.CookieName, r.logger))
	{
		private.Post("/auth/logout", h.Auth.Logout)
		private.Get("/auth/profile", h.Auth.Profile)

		contracts := private.Group("/contracts")
		{
			contracts.Get("", h.Contract.List)
			contracts.Post("", h.Contract.Create)
			contracts.Get("/:id", h.Contract.Get)
			contracts.Patch("/:id", h.Contract.Update)
			contracts.Delete("/:id", h.Contract.Delete)
			contracts.Post("/:id/counterparties", h.Contract.AddCounterparty)
			contracts.Post("/:id/views", h.Document.OpenView)
			contracts.Put("/:id/document", h.Document.Save)
			contracts.Post("/:id/send", h.Esign.Send)
		}

		views := private.Group("/views")
		{
			views.Get("/:viewId", h.Document.GetView)
			views.Get("/:viewId/content", h.Document.ViewContent)
			views.Post("/:viewId/refresh", h.Document.RefreshView)
			views.Delete("/:viewId", h.Document.CloseView)
		}

		private.Post("/editor/placeholder", h.Document.InsertPlaceholder)
		private.Post("/esign/sender", h.Esign.RegisterSender)
		private.Get("/logs", h.Log.GetLogs)
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	errCode := entity.CodeInternal
	switch code {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		errCode = entity.CodeBadRequest
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		errCode = entity.CodeNotFound
	}

	return c.Status(code).JSON(entity.NewErrorResponse(errCode, err.Error()))
}
