package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/http/middleware"
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/http/routes"
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/models"
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/repositories"
	"github.com/abossard/can-i-haz-houze-sub002/internal/config"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "github.com/abossard/can-i-haz-houze-sub002/docs" // Swagger docs
)

// @title Mortgage Approver API
// @version 1.0
// @description Mortgage application evaluation service: merge applicant data and derive approval status.

// @contact.name API Support

// @license.name MIT

// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo data in development mode
	if cfg.IsDev() {
		if err := config.SeedDemoData(db); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Start cron service for the daily status summary
	applicationService := services.NewApplicationService(repositories.NewApplicationRepository(db))
	cronService := services.NewCronService(applicationService)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Mortgage Approver API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
