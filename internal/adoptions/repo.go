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

type repository struct {
	db *gorm.DB
}

// NewRepository builds an adoption request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.AdoptionRequest) (*models.AdoptionRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdoptionRequest, error) {
	var request models.AdoptionRequest
	err := r.db.WithContext(ctx).
		Preload("Animal").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindActiveByAnimal(ctx context.Context, animalID uuid.UUID) (*models.AdoptionRequest, error) {
	var request models.AdoptionRequest
	err := r.db.WithContext(ctx).
		Where("animal_id = ? AND status IN ?", animalID, enums.ActiveAdoptionStatuses).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Where("animal_id = ? AND status IN ?", animalID, enums.ActiveAdoptionStatuses).
		Count(&count).Error
	return count, err
}

func (r *repository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*RequestList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Preload("Animal").
		Where("applicant_id = ?", applicantID)
	return r.listPage(query, params)
}

func (r *repository) ListByStatus(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*RequestList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Preload("Animal").
		Where("status = ?", status)
	return r.listPage(query, params)
}

func (r *repository) listPage(query *gorm.DB, params pagination.Params) (*RequestList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		if cursor != nil {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []models.AdoptionRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	next := ""
	if len(rows) > normalized {
		boundary := rows[normalized]
		rows = rows[:normalized]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: boundary.CreatedAt, ID: boundary.ID})
	}

	summaries := make([]RequestSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, toRequestSummary(row))
	}
	return &RequestList{Requests: summaries, NextCursor: next}, nil
}

func (r *repository) ListStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) ([]models.AdoptionRequest, error) {
	var rows []models.AdoptionRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.AdoptionStatusAwaitingPayment, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CompareAndTransition(ctx context.Context, id uuid.UUID, expected, next enums.AdoptionStatus, updates map[string]any) (bool, error) {
	merged := map[string]any{
		"status":     next,
		"updated_at": time.Now().UTC(),
	}
	for key, value := range updates {
		merged[key] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(merged)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UpdateDecision(ctx context.Context, id uuid.UUID, adminID uuid.UUID, decidedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Where("id = ? AND status = ? AND decided_at IS NULL", id, enums.AdoptionStatusPending).
		Updates(map[string]any{
			"decided_by": adminID,
			"decided_at": decidedAt,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
