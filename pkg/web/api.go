package web

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/services"
)

// API wires the document repository and node-type registry into a
// Fiber application.
type API struct {
	logger     *slog.Logger
	repository persistence.Repository
	registry   *registry.Registry
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	repository persistence.Repository,
	reg *registry.Registry,
) *API {
	return &API{
		logger:     logger,
		repository: repository,
		registry:   reg,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	documentService := services.NewDocuments(a.repository)

	handlers := NewAPIHandlers(documentService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("NodeLoom API")
	})

	d := app.Group("/documents")
	d.Get("/", handlers.GetDocuments)
	d.Post("/", handlers.CreateDocument)
	d.Post("/validate", handlers.ValidatePayload)
	d.Post("/import", handlers.ImportDocument)
	d.Get("/:id", handlers.GetDocument)
	d.Patch("/:id", handlers.UpdateDocument)
	d.Delete("/:id", handlers.DeleteDocument)
	d.Get("/:id/validate", handlers.ValidateDocument)
	d.Get("/:id/export", handlers.ExportDocument)

	app.Get("/node-types", handlers.GetNodeTypes)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
