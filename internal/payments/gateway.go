package payments

import (
	"context"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
)

// MetadataAdoptionID is the intent metadata key binding a payment to its
// adoption request. Confirmation rejects intents whose binding does not
// match, which blocks cross-request payment replay.
const MetadataAdoptionID = "adoption_id"

// Intent is the engine's view of a gateway payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       enums.IntentStatus
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// Gateway wraps the external payment processor. CreateIntent must be called
// with an idempotency key equal to the adoption request id so a retried call
// never produces a second billable intent.
type Gateway interface {
	CreateIntent(ctx context.Context, idempotencyKey string, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	CancelIntent(ctx context.Context, intentID string) error
}
