package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	"github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/internal/payments"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"

	"github.com/google/uuid"
)

// Service routes Stripe payment events into the adoption lifecycle engine.
// It is a thin translator: the engine's ConfirmPayment and Cancel entry
// points stay authoritative for every state change.
type Service struct {
	engine adoptions.Service
	logg   *logger.Logger
}

func NewService(engine adoptions.Service, logg *logger.Logger) (*Service, error) {
	if engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "adoption engine required")
	}
	return &Service{engine: engine, logg: logg}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		requestID, err := requestIDFromIntent(intent)
		if err != nil {
			return err
		}
		if _, err := s.engine.ConfirmPayment(ctx, requestID, intent.ID); err != nil {
			// The gateway may deliver the event before its read API has
			// converged; surfacing the retryable error makes Stripe retry.
			return err
		}
		return nil
	case stripe.EventTypePaymentIntentPaymentFailed:
		// A failed attempt is retryable at the gateway: the adopter can try
		// another card against the same intent. Keep the request open and let
		// the reconciliation sweep close it if nothing ever settles.
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		requestID, err := requestIDFromIntent(intent)
		if err != nil {
			return err
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithAdoptionID(ctx, requestID.String()), "payment attempt failed, awaiting retry or sweep")
		}
		return nil
	case stripe.EventTypePaymentIntentCanceled:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		requestID, err := requestIDFromIntent(intent)
		if err != nil {
			return err
		}
		if _, err := s.engine.Cancel(ctx, requestID, uuid.Nil); err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) || pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				// Already resolved by an admin decision or the sweep.
				return nil
			}
			return err
		}
		return nil
	default:
		return nil
	}
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}
	return &intent, nil
}

func requestIDFromIntent(intent *stripe.PaymentIntent) (uuid.UUID, error) {
	raw, ok := intent.Metadata[payments.MetadataAdoptionID]
	if !ok || raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "adoption id missing from intent metadata")
	}
	requestID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adoption id in intent metadata")
	}
	return requestID, nil
}
