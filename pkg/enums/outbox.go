package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAdoptionRequest OutboxAggregateType = "adoption_request"
	AggregateAnimal          OutboxAggregateType = "animal"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateAdoptionRequest,
	AggregateAnimal,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAdoptionSubmitted      OutboxEventType = "adoption_submitted"
	EventAdoptionApproved       OutboxEventType = "adoption_approved"
	EventAdoptionRejected       OutboxEventType = "adoption_rejected"
	EventAdoptionCancelled      OutboxEventType = "adoption_cancelled"
	EventAdoptionPaymentStarted OutboxEventType = "adoption_payment_started"
	EventAdoptionCompleted      OutboxEventType = "adoption_completed"
	EventAnimalReserved         OutboxEventType = "animal_reserved"
	EventAnimalReleased         OutboxEventType = "animal_released"
	EventAnimalAdopted          OutboxEventType = "animal_adopted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAdoptionSubmitted,
	EventAdoptionApproved,
	EventAdoptionRejected,
	EventAdoptionCancelled,
	EventAdoptionPaymentStarted,
	EventAdoptionCompleted,
	EventAnimalReserved,
	EventAnimalReleased,
	EventAnimalAdopted,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
