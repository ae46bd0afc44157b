package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abossard/can-i-haz-houze-sub002/internal/adapters/persistence/models"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationRepository handles mortgage application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application. The unique index on applicant_id is the
// last line of defense against two concurrent creates for the same applicant.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	record := models.FromDomain(app)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrApplicationExists
		}
		return err
	}
	app.CreatedAt = record.CreatedAt
	app.UpdatedAt = record.UpdatedAt
	return nil
}

// GetByID gets an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var record models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return record.ToDomain(), nil
}

// GetByApplicantID gets an application by applicant ID
func (r *ApplicationRepository) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Application, error) {
	var record models.Application
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return record.ToDomain(), nil
}

// List lists applications with pagination, newest first
func (r *ApplicationRepository) List(ctx context.Context, offset, limit int) ([]*domain.Application, int64, error) {
	var records []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	apps := make([]*domain.Application, 0, len(records))
	for _, record := range records {
		apps = append(apps, record.ToDomain())
	}
	return apps, total, nil
}

// Update saves an application guarded by its version: the row is only
// written when nobody else bumped the version since it was loaded.
// Returns ErrConcurrencyConflict when the compare-and-swap loses.
func (r *ApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	loadedVersion := app.Version
	record := models.FromDomain(app)
	record.Version = loadedVersion + 1
	record.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND version = ?", app.ID, loadedVersion).
		Select("fields", "status", "status_reason", "missing_requirements", "version", "updated_at").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}

	app.Version = record.Version
	app.UpdatedAt = record.UpdatedAt
	return nil
}

// Delete removes an application permanently
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// CountByStatus returns application counts grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// isDuplicateKey detects MySQL duplicate entry errors (1062)
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
