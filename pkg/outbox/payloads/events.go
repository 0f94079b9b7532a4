package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
)

// AdoptionSubmittedEvent signals a new adoption request holding an animal.
type AdoptionSubmittedEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	AnimalID    uuid.UUID `json:"animal_id"`
}

// AdoptionDecisionEvent is emitted when staff approves or rejects a request.
type AdoptionDecisionEvent struct {
	RequestID   uuid.UUID            `json:"request_id"`
	ApplicantID uuid.UUID            `json:"applicant_id"`
	AnimalID    uuid.UUID            `json:"animal_id"`
	Status      enums.AdoptionStatus `json:"status"`
	Reason      string               `json:"reason,omitempty"`
	DecidedBy   *uuid.UUID           `json:"decided_by,omitempty"`
}

// AdoptionCancelledEvent is emitted when an applicant withdraws a request.
type AdoptionCancelledEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	AnimalID    uuid.UUID `json:"animal_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// AdoptionPaymentStartedEvent records the payment intent bound to a request.
type AdoptionPaymentStartedEvent struct {
	RequestID       uuid.UUID `json:"request_id"`
	ApplicantID     uuid.UUID `json:"applicant_id"`
	AnimalID        uuid.UUID `json:"animal_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	AmountCents     int64     `json:"amount_cents"`
	Currency        string    `json:"currency"`
}

// AdoptionCompletedEvent surfaces the final settlement of an adoption.
type AdoptionCompletedEvent struct {
	RequestID       uuid.UUID `json:"request_id"`
	ApplicantID     uuid.UUID `json:"applicant_id"`
	AnimalID        uuid.UUID `json:"animal_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	AmountCents     int64     `json:"amount_cents"`
	PaidAt          time.Time `json:"paid_at"`
}

// AnimalStatusChangedEvent mirrors reservation transitions on the registry side.
type AnimalStatusChangedEvent struct {
	AnimalID  uuid.UUID          `json:"animal_id"`
	Status    enums.AnimalStatus `json:"status"`
	RequestID *uuid.UUID         `json:"request_id,omitempty"`
}
