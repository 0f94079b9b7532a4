package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef records which user triggered the event. A nil actor means the
// system acted on its own, as the reconcile sweep does.
type ActorRef struct {
	UserID  uuid.UUID `json:"userId"`
	IsAdmin bool      `json:"isAdmin,omitempty"`
}

// PayloadEnvelope wraps every event payload written to outbox_events.
// Consumers rely on the envelope shape staying fixed even as the inner Data
// schemas evolve, so Version describes the Data schema, not the envelope.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

func newEnvelope(version int, occurredAt time.Time, actor *ActorRef, data json.RawMessage) PayloadEnvelope {
	return PayloadEnvelope{
		Version:    version,
		EventID:    uuid.NewString(),
		OccurredAt: occurredAt,
		Actor:      actor,
		Data:       data,
	}
}
