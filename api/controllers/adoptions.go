package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/api/middleware"
	"github.com/pawwelfare/shelter-backend/api/responses"
	"github.com/pawwelfare/shelter-backend/api/validators"
	adoptionsvc "github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/types"
)

// SubmitAdoption handles a new adoption application from the authenticated
// applicant.
func SubmitAdoption(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload submitAdoptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animalID, err := uuid.Parse(payload.AnimalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid animal id"))
			return
		}

		detail, err := svc.SubmitRequest(r.Context(), adoptionsvc.SubmitRequestInput{
			ApplicantID: applicantID,
			AnimalID:    animalID,
			Details:     payload.Details,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// AdoptionHistory lists the authenticated applicant's own requests.
func AdoptionHistory(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListHistory(r.Context(), applicantID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetAdoption serves a single request. Applicants may only read their own;
// staff may read any.
func GetAdoption(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !middleware.IsAdminFromContext(r.Context()) && detail.ApplicantID != middleware.UserIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "adoption request not found"))
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ReviewQueue lists requests by status for staff review.
func ReviewQueue(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		status := enums.AdoptionStatusPending
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseAdoptionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = parsed
		}

		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForReview(r.Context(), status, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ApproveAdoption records the staff decision on a pending request.
func ApproveAdoption(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Approve(r.Context(), requestID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// RejectAdoption declines a request and releases the animal.
func RejectAdoption(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rejectAdoptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Reject(r.Context(), requestID, middleware.UserIDFromContext(r.Context()), strings.TrimSpace(payload.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CancelAdoption lets an applicant abandon a request that is awaiting payment.
func CancelAdoption(svc adoptionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "adoption service unavailable"))
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.UserIDFromContext(r.Context())
		if actorID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		detail, err := svc.Cancel(r.Context(), requestID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type submitAdoptionRequest struct {
	AnimalID string                   `json:"animal_id" validate:"required,uuid4"`
	Details  types.ApplicationDetails `json:"application_details" validate:"required"`
}

type rejectAdoptionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}
