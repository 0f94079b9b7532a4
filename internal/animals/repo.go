package animals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an animal registry repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, animal *models.Animal) (*models.Animal, error) {
	if err := r.db.WithContext(ctx).Create(animal).Error; err != nil {
		return nil, err
	}
	return animal, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Animal, error) {
	var animal models.Animal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&animal).Error
	if err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*AnimalList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Animal{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	} else if !filters.IncludeArchived {
		query = query.Where("status <> ?", enums.AnimalStatusArchived)
	}
	if filters.Species != "" {
		query = query.Where("species = ?", filters.Species)
	}

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		if cursor != nil {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []models.Animal
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	next := ""
	if len(rows) > normalized {
		boundary := rows[normalized]
		rows = rows[:normalized]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: boundary.CreatedAt, ID: boundary.ID})
	}

	summaries := make([]AnimalSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, toSummary(row))
	}
	return &AnimalList{Animals: summaries, NextCursor: next}, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Animal{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) TrySetStatus(ctx context.Context, id uuid.UUID, from, to enums.AnimalStatus) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if to == enums.AnimalStatusArchived {
		updates["archived_at"] = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&models.Animal{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func toSummary(row models.Animal) AnimalSummary {
	return AnimalSummary{
		ID:          row.ID,
		Name:        row.Name,
		Species:     row.Species,
		Breed:       row.Breed,
		AgeMonths:   row.AgeMonths,
		Gender:      row.Gender,
		Size:        row.Size,
		Status:      row.Status,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
