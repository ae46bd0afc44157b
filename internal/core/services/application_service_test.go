package services

import (
	"context"
	"testing"

	"github.com/abossard/can-i-haz-houze-sub002/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApplicationRepository is an in-memory ApplicationRepository with the
// same version semantics as the real one
type fakeApplicationRepository struct {
	byID          map[string]*domain.Application
	byApplicant   map[string]string
	// conflictsLeft makes the next N Update calls lose the compare-and-swap
	conflictsLeft int
	updateCalls   int
}

func newFakeRepo() *fakeApplicationRepository {
	return &fakeApplicationRepository{
		byID:        make(map[string]*domain.Application),
		byApplicant: make(map[string]string),
	}
}

func copyApp(app *domain.Application) *domain.Application {
	clone := *app
	clone.Fields = make(map[string]interface{}, len(app.Fields))
	for k, v := range app.Fields {
		clone.Fields[k] = v
	}
	clone.MissingRequirements = append([]string(nil), app.MissingRequirements...)
	return &clone
}

func (f *fakeApplicationRepository) Create(_ context.Context, app *domain.Application) error {
	if _, ok := f.byApplicant[app.ApplicantID]; ok {
		return domain.ErrApplicationExists
	}
	f.byID[app.ID] = copyApp(app)
	f.byApplicant[app.ApplicantID] = app.ID
	return nil
}

func (f *fakeApplicationRepository) GetByID(_ context.Context, id string) (*domain.Application, error) {
	app, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return copyApp(app), nil
}

func (f *fakeApplicationRepository) GetByApplicantID(_ context.Context, applicantID string) (*domain.Application, error) {
	id, ok := f.byApplicant[applicantID]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return copyApp(f.byID[id]), nil
}

func (f *fakeApplicationRepository) List(_ context.Context, offset, limit int) ([]*domain.Application, int64, error) {
	var apps []*domain.Application
	for _, app := range f.byID {
		apps = append(apps, copyApp(app))
	}
	total := int64(len(apps))
	if offset >= len(apps) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(apps) {
		end = len(apps)
	}
	return apps[offset:end], total, nil
}

func (f *fakeApplicationRepository) Update(_ context.Context, app *domain.Application) error {
	f.updateCalls++
	stored, ok := f.byID[app.ID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		// a concurrent writer won; bump the stored version like they would
		stored.Version++
		return domain.ErrConcurrencyConflict
	}
	if stored.Version != app.Version {
		return domain.ErrConcurrencyConflict
	}
	app.Version++
	f.byID[app.ID] = copyApp(app)
	return nil
}

func (f *fakeApplicationRepository) Delete(_ context.Context, id string) error {
	app, ok := f.byID[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	delete(f.byApplicant, app.ApplicantID)
	delete(f.byID, id)
	return nil
}

func (f *fakeApplicationRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, app := range f.byID {
		counts[string(app.Status)]++
	}
	return counts, nil
}

func TestApplicationService_Create(t *testing.T) {
	service := NewApplicationService(newFakeRepo())

	app, err := service.Create(context.Background(), "alice")

	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "alice", app.ApplicantID)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, "Application submitted - awaiting documentation", app.StatusReason)
	assert.Equal(t, []string{"Income", "Credit", "Employment", "Property"}, app.MissingRequirements)
	assert.Empty(t, app.Fields)
}

func TestApplicationService_Create_Duplicate(t *testing.T) {
	service := NewApplicationService(newFakeRepo())

	_, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrApplicationExists)
}

func TestApplicationService_Create_EmptyApplicant(t *testing.T) {
	service := NewApplicationService(newFakeRepo())

	_, err := service.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplicationService_MergeFields_Additive(t *testing.T) {
	service := NewApplicationService(newFakeRepo())
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	_, err = service.MergeFields(context.Background(), app.ID, map[string]interface{}{"a": float64(1)})
	require.NoError(t, err)

	updated, err := service.MergeFields(context.Background(), app.ID, map[string]interface{}{"b": float64(2)})
	require.NoError(t, err)

	assert.Equal(t, float64(1), updated.Fields["a"])
	assert.Equal(t, float64(2), updated.Fields["b"])
}

func TestApplicationService_MergeFields_Overwrite(t *testing.T) {
	service := NewApplicationService(newFakeRepo())
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	_, err = service.MergeFields(context.Background(), app.ID, map[string]interface{}{"a": float64(1)})
	require.NoError(t, err)

	updated, err := service.MergeFields(context.Background(), app.ID, map[string]interface{}{"a": float64(2)})
	require.NoError(t, err)

	assert.Equal(t, float64(2), updated.Fields["a"])
}

func TestApplicationService_MergeFields_NotFound(t *testing.T) {
	service := NewApplicationService(newFakeRepo())

	_, err := service.MergeFields(context.Background(), "no-such-id", map[string]interface{}{"a": float64(1)})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationService_MergeFields_EmptyUpdate(t *testing.T) {
	service := NewApplicationService(newFakeRepo())

	_, err := service.MergeFields(context.Background(), "any", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplicationService_MergeFields_FullScenario(t *testing.T) {
	service := NewApplicationService(newFakeRepo())
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	partial, err := service.MergeFields(context.Background(), app.ID, map[string]interface{}{
		"income_annual": float64(90000),
		"credit_score":  float64(700),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequiresAdditionalInfo, partial.Status)
	assert.Equal(t, []string{"Employment", "Property"}, partial.MissingRequirements)

	approved, err := service.MergeFields(context.Background(), app.ID, map[string]interface{}{
		"employment_employer":  "Acme",
		"property_value":       float64(300000),
		"property_loan_amount": float64(240000),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.Empty(t, approved.MissingRequirements)
	// earlier keys survive later merges
	assert.Equal(t, float64(90000), approved.Fields["income_annual"])
}

func TestApplicationService_MergeFields_RetriesOnConflict(t *testing.T) {
	repo := newFakeRepo()
	service := NewApplicationService(repo)
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	repo.conflictsLeft = 2
	updated, err := service.MergeFields(context.Background(), app.ID, map[string]interface{}{"a": float64(1)})

	require.NoError(t, err)
	assert.Equal(t, 3, repo.updateCalls)
	assert.Equal(t, float64(1), updated.Fields["a"])
}

func TestApplicationService_MergeFields_GivesUpAfterRetries(t *testing.T) {
	repo := newFakeRepo()
	service := NewApplicationService(repo)
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	repo.conflictsLeft = mergeRetries
	_, err = service.MergeFields(context.Background(), app.ID, map[string]interface{}{"a": float64(1)})

	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestApplicationService_Delete(t *testing.T) {
	service := NewApplicationService(newFakeRepo())
	app, err := service.Create(context.Background(), "alice")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), app.ID))

	_, err = service.GetByID(context.Background(), app.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	// applicant is free to apply again after a delete
	_, err = service.Create(context.Background(), "alice")
	assert.NoError(t, err)
}

func TestApplicationService_List(t *testing.T) {
	service := NewApplicationService(newFakeRepo())
	for _, applicant := range []string{"alice", "bob", "carol"} {
		_, err := service.Create(context.Background(), applicant)
		require.NoError(t, err)
	}

	out, err := service.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Len(t, out.Applications, 2)
	assert.Equal(t, 2, out.TotalPages)
}
