package config

import (
	"context"
	"log"

	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/models"
	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/repositories"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/services"

	"gorm.io/gorm"
)

// SeedDemoData inserts demo applications in development mode. Statuses are
// derived through the regular merge path, never hand-set. Skipped when the
// table already has rows.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	db.Model(&models.Application{}).Count(&count)
	if count > 0 {
		return nil
	}

	log.Println("🌱 Seeding demo applications...")

	ctx := context.Background()
	service := services.NewApplicationService(repositories.NewApplicationRepository(db))

	complete, err := service.Create(ctx, "demo-approved")
	if err != nil {
		return err
	}
	if _, err := service.MergeFields(ctx, complete.ID, map[string]interface{}{
		"income_annual":        90000,
		"credit_score":         700,
		"employment_employer":  "Contoso Ltd",
		"property_value":       300000,
		"property_loan_amount": 240000,
	}); err != nil {
		return err
	}

	partial, err := service.Create(ctx, "demo-incomplete")
	if err != nil {
		return err
	}
	if _, err := service.MergeFields(ctx, partial.ID, map[string]interface{}{
		"income_annual": 60000,
		"credit_score":  680,
	}); err != nil {
		return err
	}

	log.Println("✅ Demo applications seeded")
	return nil
}
