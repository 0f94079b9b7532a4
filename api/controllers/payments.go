package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/api/middleware"
	"github.com/pawwelfare/shelter-backend/api/responses"
	"github.com/pawwelfare/shelter-backend/api/validators"
	adoptionsvc "github.com/pawwelfare/shelter-backend/internal/adoptions"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
)

// CreatePaymentIntent opens the payment session for an approved-for-payment
// adoption request. Retried calls return the same session.
func CreatePaymentIntent(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		applicantID := middleware.UserIDFromContext(r.Context())
		if applicantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload createPaymentIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(payload.AdoptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adoption id"))
			return
		}

		session, err := svc.BeginPayment(r.Context(), requestID, applicantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// ConfirmPayment settles the adoption once the client reports the charge
// finished. Settlement is idempotent; the webhook and the reconcile sweep
// drive the same path.
func ConfirmPayment(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		applicantID := middleware.UserIDFromContext(r.Context())
		if applicantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(payload.AdoptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adoption id"))
			return
		}

		existing, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !middleware.IsAdminFromContext(r.Context()) && existing.ApplicantID != applicantID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "adoption request not found"))
			return
		}

		detail, err := svc.ConfirmPayment(r.Context(), requestID, strings.TrimSpace(payload.PaymentIntentID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type createPaymentIntentRequest struct {
	AdoptionID string `json:"adoption_id" validate:"required,uuid4"`
}

type confirmPaymentRequest struct {
	AdoptionID      string `json:"adoption_id" validate:"required,uuid4"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}
