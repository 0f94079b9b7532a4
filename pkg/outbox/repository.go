package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
)

const maxStoredErrorLen = 512

// Repository persists outbox rows. Insert runs on the caller's transaction;
// the fetch and mark methods run on the repository's own connection since the
// publisher works outside any business transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchUnpublished returns the oldest pending events, skipping rows that
// already exhausted their publish attempts.
func (r *Repository) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.
		Where("published_at IS NULL AND attempt_count < ?", maxAttempts).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublished(id uuid.UUID) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Update("published_at", time.Now().UTC()).Error
}

// MarkFailed records the publish error and bumps the attempt counter, which
// eventually ages the row out of FetchUnpublished.
func (r *Repository) MarkFailed(id uuid.UUID, cause error) error {
	msg := cause.Error()
	if len(msg) > maxStoredErrorLen {
		msg = msg[:maxStoredErrorLen]
	}
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_error":    msg,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}
