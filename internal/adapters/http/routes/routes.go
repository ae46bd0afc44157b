package routes

import (
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/http/handlers"
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/repositories"
	"github.com/abossard/can-i-haz-houze-sub002/internal/config"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	applicationRepo := repositories.NewApplicationRepository(db)

	// Services
	applicationService := services.NewApplicationService(applicationRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	applicationHandler := handlers.NewApplicationHandler(applicationService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	applications := apiV1.Group("/applications")
	applications.Post("/", applicationHandler.Create)
	applications.Get("/", applicationHandler.List)
	applications.Get("/applicant/:applicantId", applicationHandler.GetByApplicant)
	applications.Get("/:id", applicationHandler.GetByID)
	applications.Patch("/:id/fields", applicationHandler.MergeFields)
	applications.Delete("/:id", applicationHandler.Delete)
}
