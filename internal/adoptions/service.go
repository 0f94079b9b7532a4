package adoptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/internal/animals"
	"github.com/pawwelfare/shelter-backend/internal/payments"
	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/db"
	"github.com/pawwelfare/shelter-backend/pkg/db/models"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/outbox"
	"github.com/pawwelfare/shelter-backend/pkg/outbox/payloads"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the adoption lifecycle engine. It owns every status transition
// on adoption requests and on the referenced animal's registry status; no
// other component writes either field.
type Service interface {
	SubmitRequest(ctx context.Context, input SubmitRequestInput) (*RequestDetail, error)
	BeginPayment(ctx context.Context, requestID, applicantID uuid.UUID) (*PaymentSession, error)
	ConfirmPayment(ctx context.Context, requestID uuid.UUID, paymentIntentID string) (*RequestDetail, error)
	Approve(ctx context.Context, requestID, adminID uuid.UUID) (*RequestDetail, error)
	Reject(ctx context.Context, requestID, adminID uuid.UUID, reason string) (*RequestDetail, error)
	Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*RequestDetail, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDetail, error)
	ListHistory(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*RequestList, error)
	ListForReview(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*RequestList, error)
	CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error)
}

type service struct {
	repo     Repository
	registry animals.Repository
	gateway  payments.Gateway
	tx       txRunner
	outbox   outboxPublisher
	fee      config.AdoptionConfig
	logg     *logger.Logger
}

// ServiceParams collects the engine's dependencies.
type ServiceParams struct {
	Repo              Repository
	AnimalRegistry    animals.Repository
	Gateway           payments.Gateway
	TransactionRunner txRunner
	Outbox            outboxPublisher
	Fee               config.AdoptionConfig
	Logger            *logger.Logger
}

// NewService builds the adoption lifecycle engine.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("adoptions repository required")
	}
	if params.AnimalRegistry == nil {
		return nil, fmt.Errorf("animal registry required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Fee.FeeCents <= 0 {
		return nil, fmt.Errorf("adoption fee must be positive")
	}
	return &service{
		repo:     params.Repo,
		registry: params.AnimalRegistry,
		gateway:  params.Gateway,
		tx:       params.TransactionRunner,
		outbox:   params.Outbox,
		fee:      params.Fee,
		logg:     params.Logger,
	}, nil
}

func (s *service) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*RequestDetail, error) {
	if input.ApplicantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "applicant identity missing")
	}
	if input.AnimalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "animal id required")
	}
	if missing := input.Details.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("application details incomplete: %s", strings.Join(missing, ", ")))
	}

	animal, err := s.registry.FindByID(ctx, input.AnimalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load animal")
	}
	if animal.Status != enums.AnimalStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "animal is no longer available")
	}

	// Cheap pre-check; the conditional registry update below is what actually
	// serializes concurrent submissions.
	if _, err := s.repo.FindActiveByAnimal(ctx, input.AnimalID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "animal is no longer available")
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active requests")
	}

	request := &models.AdoptionRequest{
		ID:                 uuid.New(),
		ApplicantID:        input.ApplicantID,
		AnimalID:           input.AnimalID,
		ApplicationDetails: input.Details,
		Status:             enums.AdoptionStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		claimed, err := s.registry.WithTx(tx).TrySetStatus(ctx, input.AnimalID, enums.AnimalStatusAvailable, enums.AnimalStatusPending)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve animal")
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeConflict, "animal is no longer available")
		}

		if _, err := s.repo.WithTx(tx).Create(ctx, request); err != nil {
			// The partial unique index backstops the CAS claim when two
			// submissions race past it.
			if db.IsUniqueViolation(err, "idx_adoption_requests_one_active_per_animal") {
				return pkgerrors.New(pkgerrors.CodeConflict, "animal is no longer available")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create adoption request")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdoptionSubmitted,
			AggregateType: enums.AggregateAdoptionRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ApplicantID},
			Data: payloads.AdoptionSubmittedEvent{
				RequestID:   request.ID,
				ApplicantID: input.ApplicantID,
				AnimalID:    input.AnimalID,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAnimalReserved,
			AggregateType: enums.AggregateAnimal,
			AggregateID:   input.AnimalID,
			Version:       1,
			Data: payloads.AnimalStatusChangedEvent{
				AnimalID:  input.AnimalID,
				Status:    enums.AnimalStatusPending,
				RequestID: &request.ID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	request.Animal = animal
	return toDetail(request), nil
}

func (s *service) BeginPayment(ctx context.Context, requestID, applicantID uuid.UUID) (*PaymentSession, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if applicantID != uuid.Nil && request.ApplicantID != applicantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to applicant")
	}

	// A retried call after the transition already committed returns the
	// session for the stored intent instead of minting a new one.
	if request.Status == enums.AdoptionStatusAwaitingPayment && request.PaymentIntentID != nil {
		intent, err := s.gateway.RetrieveIntent(ctx, *request.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		return s.toSession(request, intent), nil
	}
	if request.Status != enums.AdoptionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting a payment start")
	}

	intent, err := s.gateway.CreateIntent(
		ctx,
		request.ID.String(),
		int64(s.fee.FeeCents),
		s.fee.Currency,
		map[string]string{payments.MetadataAdoptionID: request.ID.String()},
	)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.WithTx(tx).CompareAndTransition(ctx, request.ID,
			enums.AdoptionStatusPending, enums.AdoptionStatusAwaitingPayment,
			map[string]any{"payment_intent_id": intent.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition to awaiting payment")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting a payment start")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdoptionPaymentStarted,
			AggregateType: enums.AggregateAdoptionRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: request.ApplicantID},
			Data: payloads.AdoptionPaymentStartedEvent{
				RequestID:       request.ID,
				ApplicantID:     request.ApplicantID,
				AnimalID:        request.AnimalID,
				PaymentIntentID: intent.ID,
				AmountCents:     int64(s.fee.FeeCents),
				Currency:        s.fee.Currency,
			},
		})
	})
	if err != nil {
		// The transition lost a race. A concurrent BeginPayment holds the
		// same intent (idempotency key = request id) and may have committed
		// it already; cancelling here would kill that live session. Return
		// the stored session instead, and only cancel when the intent is
		// truly orphaned, e.g. an admin decided the request meanwhile.
		if current, loadErr := s.loadRequest(ctx, requestID); loadErr == nil &&
			current.Status == enums.AdoptionStatusAwaitingPayment &&
			current.PaymentIntentID != nil && *current.PaymentIntentID == intent.ID {
			return s.toSession(current, intent), nil
		}
		if cancelErr := s.gateway.CancelIntent(ctx, intent.ID); cancelErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to cancel orphaned payment intent")
		}
		return nil, err
	}

	request.Status = enums.AdoptionStatusAwaitingPayment
	request.PaymentIntentID = &intent.ID
	return s.toSession(request, intent), nil
}

func (s *service) ConfirmPayment(ctx context.Context, requestID uuid.UUID, paymentIntentID string) (*RequestDetail, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Clients legitimately retry on a dropped response; confirming an
	// already-completed request with the same intent is a no-op success.
	if request.Status == enums.AdoptionStatusCompleted {
		if request.PaymentIntentID != nil && *request.PaymentIntentID == paymentIntentID {
			return toDetail(request), nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeIntentMismatch, "payment intent does not match this request")
	}
	if request.Status != enums.AdoptionStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}
	if request.PaymentIntentID == nil || *request.PaymentIntentID != paymentIntentID {
		return nil, pkgerrors.New(pkgerrors.CodeIntentMismatch, "payment intent does not match this request")
	}

	intent, err := s.gateway.RetrieveIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	switch intent.Status {
	case enums.IntentStatusSucceeded:
	case enums.IntentStatusRequiresPayment:
		return nil, pkgerrors.New(pkgerrors.CodePaymentPending, "payment has not settled yet")
	default:
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed, "payment did not succeed")
	}

	if intent.AmountCents != int64(s.fee.FeeCents) || !strings.EqualFold(intent.Currency, s.fee.Currency) {
		return nil, pkgerrors.New(pkgerrors.CodeIntentMismatch, "payment amount does not match the adoption fee")
	}
	if intent.Metadata[payments.MetadataAdoptionID] != request.ID.String() {
		return nil, pkgerrors.New(pkgerrors.CodeIntentMismatch, "payment intent is bound to a different request")
	}

	paidAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.WithTx(tx).CompareAndTransition(ctx, request.ID,
			enums.AdoptionStatusAwaitingPayment, enums.AdoptionStatusCompleted,
			map[string]any{"paid_at": paidAt})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete adoption request")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
		}

		adopted, err := s.registry.WithTx(tx).TrySetStatus(ctx, request.AnimalID, enums.AnimalStatusPending, enums.AnimalStatusAdopted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark animal adopted")
		}
		if !adopted {
			animal, err := s.registry.WithTx(tx).FindByID(ctx, request.AnimalID)
			if err != nil || animal.Status != enums.AnimalStatusAdopted {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "animal registry out of sync")
			}
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdoptionCompleted,
			AggregateType: enums.AggregateAdoptionRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: request.ApplicantID},
			Data: payloads.AdoptionCompletedEvent{
				RequestID:       request.ID,
				ApplicantID:     request.ApplicantID,
				AnimalID:        request.AnimalID,
				PaymentIntentID: paymentIntentID,
				AmountCents:     intent.AmountCents,
				PaidAt:          paidAt,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAnimalAdopted,
			AggregateType: enums.AggregateAnimal,
			AggregateID:   request.AnimalID,
			Version:       1,
			Data: payloads.AnimalStatusChangedEvent{
				AnimalID:  request.AnimalID,
				Status:    enums.AnimalStatusAdopted,
				RequestID: &request.ID,
			},
		})
	})
	if err != nil {
		// The transition may have lost to a concurrent retry that already
		// completed the request; surface that as the idempotent success.
		if pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
			current, loadErr := s.loadRequest(ctx, requestID)
			if loadErr == nil && current.Status == enums.AdoptionStatusCompleted &&
				current.PaymentIntentID != nil && *current.PaymentIntentID == paymentIntentID {
				return toDetail(current), nil
			}
		}
		return nil, err
	}

	request.Status = enums.AdoptionStatusCompleted
	request.PaidAt = &paidAt
	return toDetail(request), nil
}

func (s *service) Approve(ctx context.Context, requestID, adminID uuid.UUID) (*RequestDetail, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.AdoptionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}
	if request.DecidedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}

	decidedAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		marked, err := s.repo.WithTx(tx).UpdateDecision(ctx, request.ID, adminID, decidedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record approval")
		}
		if !marked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdoptionApproved,
			AggregateType: enums.AggregateAdoptionRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: adminID, IsAdmin: true},
			Data: payloads.AdoptionDecisionEvent{
				RequestID:   request.ID,
				ApplicantID: request.ApplicantID,
				AnimalID:    request.AnimalID,
				Status:      enums.AdoptionStatusPending,
				DecidedBy:   &adminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	request.DecidedBy = &adminID
	request.DecidedAt = &decidedAt
	return toDetail(request), nil
}

func (s *service) Reject(ctx context.Context, requestID, adminID uuid.UUID, reason string) (*RequestDetail, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.Status.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
	}

	from := request.Status
	decidedAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.WithTx(tx).CompareAndTransition(ctx, request.ID,
			from, enums.AdoptionStatusRejected,
			map[string]any{
				"rejection_reason": reason,
				"decided_by":       adminID,
				"decided_at":       decidedAt,
			})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject adoption request")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
		}
		return s.releaseAnimal(ctx, tx, request, enums.EventAdoptionRejected, &outbox.ActorRef{UserID: adminID, IsAdmin: true}, payloads.AdoptionDecisionEvent{
			RequestID:   request.ID,
			ApplicantID: request.ApplicantID,
			AnimalID:    request.AnimalID,
			Status:      enums.AdoptionStatusRejected,
			Reason:      reason,
			DecidedBy:   &adminID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.cancelIntentBestEffort(ctx, request)

	request.Status = enums.AdoptionStatusRejected
	request.RejectionReason = &reason
	request.DecidedBy = &adminID
	request.DecidedAt = &decidedAt
	return toDetail(request), nil
}

func (s *service) Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*RequestDetail, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil && request.ApplicantID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to applicant")
	}
	if request.Status == enums.AdoptionStatusCancelled {
		return toDetail(request), nil
	}
	if request.Status != enums.AdoptionStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only payment-pending requests can be cancelled")
	}

	cancelledAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.WithTx(tx).CompareAndTransition(ctx, request.ID,
			enums.AdoptionStatusAwaitingPayment, enums.AdoptionStatusCancelled, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel adoption request")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided")
		}
		return s.releaseAnimal(ctx, tx, request, enums.EventAdoptionCancelled, &outbox.ActorRef{UserID: request.ApplicantID}, payloads.AdoptionCancelledEvent{
			RequestID:   request.ID,
			ApplicantID: request.ApplicantID,
			AnimalID:    request.AnimalID,
			CancelledAt: cancelledAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.cancelIntentBestEffort(ctx, request)

	request.Status = enums.AdoptionStatusCancelled
	return toDetail(request), nil
}

func (s *service) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDetail, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toDetail(request), nil
}

func (s *service) ListHistory(ctx context.Context, applicantID uuid.UUID, params pagination.Params) (*RequestList, error) {
	if applicantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "applicant identity missing")
	}
	list, err := s.repo.ListByApplicant(ctx, applicantID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list adoption history")
	}
	return list, nil
}

func (s *service) ListForReview(ctx context.Context, status enums.AdoptionStatus, params pagination.Params) (*RequestList, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	list, err := s.repo.ListByStatus(ctx, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests for review")
	}
	return list, nil
}

func (s *service) CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error) {
	if animalID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "animal id required")
	}
	count, err := s.repo.CountActiveByAnimal(ctx, animalID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active requests")
	}
	return count, nil
}

func (s *service) loadRequest(ctx context.Context, requestID uuid.UUID) (*models.AdoptionRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "adoption request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load adoption request")
	}
	return request, nil
}

// releaseAnimal reverts the reservation held by a rejected or cancelled
// request. A lost conditional update is tolerated: the animal status is a
// derived cache and the reconciliation sweep recomputes drift.
func (s *service) releaseAnimal(ctx context.Context, tx *gorm.DB, request *models.AdoptionRequest, eventType enums.OutboxEventType, actor *outbox.ActorRef, data any) error {
	released, err := s.registry.WithTx(tx).TrySetStatus(ctx, request.AnimalID, enums.AnimalStatusPending, enums.AnimalStatusAvailable)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release animal")
	}

	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateAdoptionRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         actor,
		Data:          data,
	}); err != nil {
		return err
	}
	if !released {
		return nil
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventAnimalReleased,
		AggregateType: enums.AggregateAnimal,
		AggregateID:   request.AnimalID,
		Version:       1,
		Data: payloads.AnimalStatusChangedEvent{
			AnimalID:  request.AnimalID,
			Status:    enums.AnimalStatusAvailable,
			RequestID: &request.ID,
		},
	})
}

func (s *service) cancelIntentBestEffort(ctx context.Context, request *models.AdoptionRequest) {
	if request.PaymentIntentID == nil {
		return
	}
	if err := s.gateway.CancelIntent(ctx, *request.PaymentIntentID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to cancel payment intent for closed request")
	}
}

func (s *service) toSession(request *models.AdoptionRequest, intent *payments.Intent) *PaymentSession {
	return &PaymentSession{
		RequestID:       request.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     int64(s.fee.FeeCents),
		Currency:        s.fee.Currency,
		Status:          request.Status,
	}
}
