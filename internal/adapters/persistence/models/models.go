package models

import (
	"time"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"

	"gorm.io/gorm"
)

// Application represents the mortgage_applications table.
// Fields and MissingRequirements are stored as JSON columns; Version backs
// the optimistic compare-and-swap on updates.
type Application struct {
	ID                  string                 `gorm:"primaryKey;size:36" json:"id"`
	ApplicantID         string                 `gorm:"uniqueIndex;size:100;not null" json:"applicant_id"`
	Status              string                 `gorm:"size:30;not null;index" json:"status"`
	StatusReason        string                 `gorm:"size:500" json:"status_reason"`
	MissingRequirements []string               `gorm:"serializer:json;type:text" json:"missing_requirements"`
	Fields              map[string]interface{} `gorm:"serializer:json;type:text" json:"fields"`
	Version             uint                   `gorm:"not null;default:1" json:"version"`
	CreatedAt           time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

func (Application) TableName() string {
	return "mortgage_applications"
}

// ToDomain converts the persistence model to a domain application
func (a *Application) ToDomain() *domain.Application {
	return &domain.Application{
		ID:                  a.ID,
		ApplicantID:         a.ApplicantID,
		Status:              domain.ApplicationStatus(a.Status),
		StatusReason:        a.StatusReason,
		MissingRequirements: a.MissingRequirements,
		Fields:              a.Fields,
		Version:             a.Version,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// FromDomain converts a domain application to the persistence model
func FromDomain(app *domain.Application) *Application {
	return &Application{
		ID:                  app.ID,
		ApplicantID:         app.ApplicantID,
		Status:              string(app.Status),
		StatusReason:        app.StatusReason,
		MissingRequirements: app.MissingRequirements,
		Fields:              app.Fields,
		Version:             app.Version,
		CreatedAt:           app.CreatedAt,
		UpdatedAt:           app.UpdatedAt,
	}
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                  string                 `json:"id"`
	ApplicantID         string                 `json:"applicant_id"`
	Status              string                 `json:"status"`
	StatusReason        string                 `json:"status_reason"`
	MissingRequirements []string               `json:"missing_requirements"`
	Fields              map[string]interface{} `json:"fields"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ToResponse builds the API response shape for a domain application
func ToResponse(app *domain.Application) *ApplicationResponse {
	missing := app.MissingRequirements
	if missing == nil {
		missing = []string{}
	}
	fields := app.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return &ApplicationResponse{
		ID:                  app.ID,
		ApplicantID:         app.ApplicantID,
		Status:              string(app.Status),
		StatusReason:        app.StatusReason,
		MissingRequirements: missing,
		Fields:              fields,
		CreatedAt:           app.CreatedAt,
		UpdatedAt:           app.UpdatedAt,
	}
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Application{},
	)
}
