package adoptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	"github.com/pawwelfare/shelter-backend/pkg/types"
)

// SubmitRequestInput carries an applicant's adoption application.
type SubmitRequestInput struct {
	ApplicantID uuid.UUID
	AnimalID    uuid.UUID
	Details     types.ApplicationDetails
}

// RequestDetail is the full adoption request view returned by engine operations.
type RequestDetail struct {
	ID              uuid.UUID                `json:"id"`
	ApplicantID     uuid.UUID                `json:"applicant_id"`
	AnimalID        uuid.UUID                `json:"animal_id"`
	AnimalName      string                   `json:"animal_name,omitempty"`
	Details         types.ApplicationDetails `json:"application_details"`
	Status          enums.AdoptionStatus     `json:"status"`
	RejectionReason *string                  `json:"rejection_reason,omitempty"`
	PaymentIntentID *string                  `json:"payment_intent_id,omitempty"`
	DecidedBy       *uuid.UUID               `json:"decided_by,omitempty"`
	DecidedAt       *time.Time               `json:"decided_at,omitempty"`
	PaidAt          *time.Time               `json:"paid_at,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

// RequestSummary is the compact row returned by list queries.
type RequestSummary struct {
	ID          uuid.UUID            `json:"id"`
	ApplicantID uuid.UUID            `json:"applicant_id"`
	AnimalID    uuid.UUID            `json:"animal_id"`
	AnimalName  string               `json:"animal_name,omitempty"`
	Status      enums.AdoptionStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// RequestList wraps paginated requests plus the next page cursor.
type RequestList struct {
	Requests   []RequestSummary `json:"requests"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// PaymentSession is returned by BeginPayment so the client can complete the
// charge against the gateway.
type PaymentSession struct {
	RequestID       uuid.UUID            `json:"request_id"`
	PaymentIntentID string               `json:"payment_intent_id"`
	ClientSecret    string               `json:"client_secret"`
	AmountCents     int64                `json:"amount_cents"`
	Currency        string               `json:"currency"`
	Status          enums.AdoptionStatus `json:"status"`
}

func toDetail(row *models.AdoptionRequest) *RequestDetail {
	if row == nil {
		return nil
	}
	detail := &RequestDetail{
		ID:              row.ID,
		ApplicantID:     row.ApplicantID,
		AnimalID:        row.AnimalID,
		Details:         row.ApplicationDetails,
		Status:          row.Status,
		RejectionReason: row.RejectionReason,
		PaymentIntentID: row.PaymentIntentID,
		DecidedBy:       row.DecidedBy,
		DecidedAt:       row.DecidedAt,
		PaidAt:          row.PaidAt,
		CreatedAt:       row.CreatedAt,
	}
	if row.Animal != nil {
		detail.AnimalName = row.Animal.Name
	}
	return detail
}

func toRequestSummary(row models.AdoptionRequest) RequestSummary {
	summary := RequestSummary{
		ID:          row.ID,
		ApplicantID: row.ApplicantID,
		AnimalID:    row.AnimalID,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
	}
	if row.Animal != nil {
		summary.AnimalName = row.Animal.Name
	}
	return summary
}
