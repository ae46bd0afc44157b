package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"
	"github.com/abossard/can-i-haz-houze-sub002/internal/core/evaluation"

	"github.com/google/uuid"
)

// mergeRetries bounds the load-merge-save cycle when the optimistic save
// loses against a concurrent writer
const mergeRetries = 3

// ApplicationService owns the mortgage application lifecycle: creation,
// field merges and the re-evaluation that follows every merge. Status is
// never accepted from callers; it is always derived from the merged fields.
type ApplicationService struct {
	repo ApplicationRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(repo ApplicationRepository) *ApplicationService {
	return &ApplicationService{repo: repo}
}

// Create creates a new application for an applicant. At most one
// application may exist per applicant.
func (s *ApplicationService) Create(ctx context.Context, applicantID string) (*domain.Application, error) {
	applicantID = strings.TrimSpace(applicantID)
	if applicantID == "" {
		return nil, domain.ErrValidation
	}

	if _, err := s.repo.GetByApplicantID(ctx, applicantID); err == nil {
		return nil, domain.ErrApplicationExists
	} else if !errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, err
	}

	missing := make([]string, 0, len(domain.AllCategories))
	for _, cat := range domain.AllCategories {
		missing = append(missing, string(cat))
	}

	now := time.Now()
	app := &domain.Application{
		ID:                  uuid.New().String(),
		ApplicantID:         applicantID,
		Status:              domain.StatusPending,
		StatusReason:        evaluation.ReasonPending,
		MissingRequirements: missing,
		Fields:              map[string]interface{}{},
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// MergeFields overlays updates onto the application's field mapping
// (last-write-wins per key, unrelated keys preserved) and re-runs the
// evaluator against the merged mapping. The whole load-merge-save cycle is
// retried when the optimistic save reports a conflict.
func (s *ApplicationService) MergeFields(ctx context.Context, id string, updates map[string]interface{}) (*domain.Application, error) {
	if len(updates) == 0 {
		return nil, domain.ErrValidation
	}

	var lastErr error
	for attempt := 0; attempt < mergeRetries; attempt++ {
		app, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if app.Fields == nil {
			app.Fields = make(map[string]interface{}, len(updates))
		}
		for key, value := range updates {
			app.Fields[key] = value
		}

		result := evaluation.Evaluate(app.Fields)
		app.Status = result.Status
		app.StatusReason = result.StatusReason
		app.MissingRequirements = result.MissingRequirements
		app.UpdatedAt = time.Now()

		err = s.repo.Update(ctx, app)
		if err == nil {
			return app, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByApplicantID gets an application by applicant ID
func (s *ApplicationService) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Application, error) {
	return s.repo.GetByApplicantID(ctx, applicantID)
}

// ListOutput represents list output
type ListOutput struct {
	Applications []*domain.Application `json:"applications"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// List lists applications with pagination
func (s *ApplicationService) List(ctx context.Context, page, limit int) (*ListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	apps, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListOutput{
		Applications: apps,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
	}, nil
}

// Delete removes an application. Administrative action, no cascading
// side effects.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// StatusSummary returns application counts per status
func (s *ApplicationService) StatusSummary(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}
