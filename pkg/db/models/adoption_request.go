package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/types"
)

// AdoptionRequest is an applicant's claim on a single animal. Requests are
// never deleted; they only reach a terminal status. The payment intent id is
// written once when payment begins and is immutable after confirmation.
type AdoptionRequest struct {
	ID                 uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicantID        uuid.UUID                 `gorm:"column:applicant_id;type:uuid;not null"`
	AnimalID           uuid.UUID                 `gorm:"column:animal_id;type:uuid;not null"`
	ApplicationDetails types.ApplicationDetails  `gorm:"column:application_details;type:jsonb;serializer:json"`
	Status             enums.AdoptionStatus      `gorm:"column:status;type:adoption_status;not null;default:'pending'"`
	RejectionReason    *string                   `gorm:"column:rejection_reason"`
	PaymentIntentID    *string                   `gorm:"column:payment_intent_id"`
	DecidedBy          *uuid.UUID                `gorm:"column:decided_by;type:uuid"`
	DecidedAt          *time.Time                `gorm:"column:decided_at"`
	PaidAt             *time.Time                `gorm:"column:paid_at"`
	Animal             *Animal                   `gorm:"foreignKey:AnimalID"`
	CreatedAt          time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
