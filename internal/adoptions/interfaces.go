package adoptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

// Repository defines persistence operations for adoption requests.
//
// CompareAndTransition is the only way any status field changes. It applies
// the updates solely when the stored status still equals expected, and
// reports whether the row moved. A false return with a nil error is an
// optimistic-concurrency loss, never corruption.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.AdoptionRequest) (*models.AdoptionRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdoptionRequest, error)
	FindActiveByAnimal(ctx context.Context, animalID uuid.UUID) (*models.AdoptionRequest, error)
	CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*RequestList, error)
	ListByStatus(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*RequestList, error)
	ListStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) ([]models.AdoptionRequest, error)
	CompareAndTransition(ctx context.Context, id uuid.UUID, expected, next enums.AdoptionStatus, updates map[string]any) (bool, error)
	UpdateDecision(ctx context.Context, id uuid.UUID, adminID uuid.UUID, decidedAt time.Time) (bool, error)
}
