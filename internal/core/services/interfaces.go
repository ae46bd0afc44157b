package services

import (
	"context"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"
)

// ApplicationRepository defines the storage contract the application
// service runs its load-merge-save cycle against. Update must be atomic
// relative to other writers on the same row and report a lost
// compare-and-swap as domain.ErrConcurrencyConflict.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*domain.Application, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Application, int64, error)
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
