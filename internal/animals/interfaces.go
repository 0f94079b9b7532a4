package animals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

// Repository defines persistence operations for the animal registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, animal *models.Animal) (*models.Animal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Animal, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*AnimalList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// TrySetStatus performs a conditional status update and reports whether
	// the row actually changed. A false return with a nil error means the
	// animal was not in the expected status.
	TrySetStatus(ctx context.Context, id uuid.UUID, from, to enums.AnimalStatus) (bool, error)
}
