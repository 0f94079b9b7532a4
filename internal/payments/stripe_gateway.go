package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	pkgstripe "github.com/pawwelfare/shelter-backend/pkg/stripe"
)

type stripeGateway struct{}

// NewStripeGateway wraps the global Stripe client behind the Gateway contract.
func NewStripeGateway(api *pkgstripe.Client) (Gateway, error) {
	if api == nil {
		return nil, errors.New("stripe client required")
	}
	return &stripeGateway{}, nil
}

func (g *stripeGateway) CreateIntent(ctx context.Context, idempotencyKey string, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	if idempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key required")
	}
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapStripeError(err, "create payment intent")
	}
	return fromStripeIntent(pi), nil
}

func (g *stripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	if intentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "intent id required")
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, wrapStripeError(err, "retrieve payment intent")
	}
	return fromStripeIntent(pi), nil
}

func (g *stripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	if intentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "intent id required")
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		return wrapStripeError(err, "cancel payment intent")
	}
	return nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *Intent {
	if pi == nil {
		return nil
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       mapIntentStatus(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}

func mapIntentStatus(status stripe.PaymentIntentStatus) enums.IntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return enums.IntentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return enums.IntentStatusCanceled
	default:
		// requires_payment_method, requires_confirmation, requires_action,
		// requires_capture and processing are all non-terminal from the
		// engine's point of view.
		return enums.IntentStatusRequiresPayment
	}
}

func wrapStripeError(err error, msg string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, msg)
		case stripe.ErrorTypeInvalidRequest:
			if stripeErr.HTTPStatusCode == 404 {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
			}
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
