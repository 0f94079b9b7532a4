package adoptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

func setupAdoptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	animals := `
CREATE TABLE IF NOT EXISTS animals (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  species TEXT NOT NULL,
  breed TEXT,
  age_months INTEGER NOT NULL DEFAULT 0,
  gender TEXT,
  size TEXT,
  health_status TEXT,
  vaccinated INTEGER NOT NULL DEFAULT 0,
  neutered INTEGER NOT NULL DEFAULT 0,
  description TEXT,
  medical_notes TEXT,
  status TEXT NOT NULL DEFAULT 'available',
  archived_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	requests := `
CREATE TABLE IF NOT EXISTS adoption_requests (
  id TEXT PRIMARY KEY,
  applicant_id TEXT NOT NULL,
  animal_id TEXT NOT NULL,
  application_details TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  rejection_reason TEXT,
  payment_intent_id TEXT,
  decided_by TEXT,
  decided_at DATETIME,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(animals).Error)
	require.NoError(t, db.Exec(requests).Error)
	require.NoError(t, db.Exec(`DELETE FROM adoption_requests`).Error)
	require.NoError(t, db.Exec(`DELETE FROM animals`).Error)
	return db
}

func seedAnimal(t *testing.T, db *gorm.DB, status enums.AnimalStatus) *models.Animal {
	t.Helper()

	animal := &models.Animal{
		ID:        uuid.New(),
		Name:      "Biscuit",
		Species:   "dog",
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(animal).Error)
	return animal
}

func seedRequest(t *testing.T, db *gorm.DB, animalID uuid.UUID, status enums.AdoptionStatus, created time.Time) *models.AdoptionRequest {
	t.Helper()

	request := &models.AdoptionRequest{
		ID:          uuid.New(),
		ApplicantID: uuid.New(),
		AnimalID:    animalID,
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestRepositoryCompareAndTransition(t *testing.T) {
	db := setupAdoptionsTestDB(t)
	repo := NewRepository(db)

	animal := seedAnimal(t, db, enums.AnimalStatusPending)
	request := seedRequest(t, db, animal.ID, enums.AdoptionStatusPending, time.Now().UTC())

	moved, err := repo.CompareAndTransition(context.Background(), request.ID,
		enums.AdoptionStatusPending, enums.AdoptionStatusAwaitingPayment,
		map[string]any{"payment_intent_id": "pi_123"})
	require.NoError(t, err)
	assert.True(t, moved)

	// Replaying the stale transition must not move the row again.
	moved, err = repo.CompareAndTransition(context.Background(), request.ID,
		enums.AdoptionStatusPending, enums.AdoptionStatusAwaitingPayment, nil)
	require.NoError(t, err)
	assert.False(t, moved)

	stored, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AdoptionStatusAwaitingPayment, stored.Status)
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, "pi_123", *stored.PaymentIntentID)
}

func TestRepositoryFindActiveByAnimal(t *testing.T) {
	db := setupAdoptionsTestDB(t)
	repo := NewRepository(db)

	animal := seedAnimal(t, db, enums.AnimalStatusPending)
	seedRequest(t, db, animal.ID, enums.AdoptionStatusRejected, time.Now().UTC().Add(-time.Hour))
	active := seedRequest(t, db, animal.ID, enums.AdoptionStatusAwaitingPayment, time.Now().UTC())

	found, err := repo.FindActiveByAnimal(context.Background(), animal.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	count, err := repo.CountActiveByAnimal(context.Background(), animal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindActiveByAnimal(context.Background(), uuid.New())
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestRepositoryListByApplicant_pagination(t *testing.T) {
	db := setupAdoptionsTestDB(t)
	repo := NewRepository(db)

	animal := seedAnimal(t, db, enums.AnimalStatusAvailable)
	applicantID := uuid.New()
	now := time.Now().UTC()

	older := &models.AdoptionRequest{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Status:      enums.AdoptionStatusRejected,
		CreatedAt:   now.Add(-time.Hour),
		UpdatedAt:   now.Add(-time.Hour),
	}
	newer := &models.AdoptionRequest{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Status:      enums.AdoptionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	list, err := repo.ListByApplicant(context.Background(), applicantID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, newer.ID, list.Requests[0].ID)
	assert.Equal(t, "Biscuit", list.Requests[0].AnimalName)
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.ListByApplicant(context.Background(), applicantID, pagination.Params{Limit: 1, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Requests, 1)
	assert.Equal(t, older.ID, second.Requests[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListStaleAwaitingPayment(t *testing.T) {
	db := setupAdoptionsTestDB(t)
	repo := NewRepository(db)

	animal := seedAnimal(t, db, enums.AnimalStatusPending)
	now := time.Now().UTC()
	stale := seedRequest(t, db, animal.ID, enums.AdoptionStatusAwaitingPayment, now.Add(-2*time.Hour))
	seedRequest(t, db, animal.ID, enums.AdoptionStatusAwaitingPayment, now)
	seedRequest(t, db, animal.ID, enums.AdoptionStatusPending, now.Add(-2*time.Hour))

	rows, err := repo.ListStaleAwaitingPayment(context.Background(), now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

func TestRepositoryUpdateDecision(t *testing.T) {
	db := setupAdoptionsTestDB(t)
	repo := NewRepository(db)

	animal := seedAnimal(t, db, enums.AnimalStatusPending)
	request := seedRequest(t, db, animal.ID, enums.AdoptionStatusPending, time.Now().UTC())
	adminID := uuid.New()

	marked, err := repo.UpdateDecision(context.Background(), request.ID, adminID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, marked)

	// A second admin acting on the already-decided request loses.
	marked, err = repo.UpdateDecision(context.Background(), request.ID, uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, marked)

	stored, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DecidedBy)
	assert.Equal(t, adminID, *stored.DecidedBy)
	require.NotNil(t, stored.DecidedAt)
}
