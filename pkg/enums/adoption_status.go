package enums

import "fmt"

// AdoptionStatus tracks the lifecycle of an adoption request.
type AdoptionStatus string

const (
	AdoptionStatusPending         AdoptionStatus = "pending"
	AdoptionStatusAwaitingPayment AdoptionStatus = "awaiting_payment"
	AdoptionStatusCompleted       AdoptionStatus = "completed"
	AdoptionStatusRejected        AdoptionStatus = "rejected"
	AdoptionStatusCancelled       AdoptionStatus = "cancelled"
)

var validAdoptionStatuses = []AdoptionStatus{
	AdoptionStatusPending,
	AdoptionStatusAwaitingPayment,
	AdoptionStatusCompleted,
	AdoptionStatusRejected,
	AdoptionStatusCancelled,
}

// ActiveAdoptionStatuses are the states that hold an animal reservation.
var ActiveAdoptionStatuses = []AdoptionStatus{
	AdoptionStatusPending,
	AdoptionStatusAwaitingPayment,
}

// String implements fmt.Stringer.
func (a AdoptionStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdoptionStatus.
func (a AdoptionStatus) IsValid() bool {
	for _, candidate := range validAdoptionStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsActive reports whether the status holds an animal reservation.
func (a AdoptionStatus) IsActive() bool {
	return a == AdoptionStatusPending || a == AdoptionStatusAwaitingPayment
}

// IsTerminal reports whether the status can no longer transition.
func (a AdoptionStatus) IsTerminal() bool {
	switch a {
	case AdoptionStatusCompleted, AdoptionStatusRejected, AdoptionStatusCancelled:
		return true
	}
	return false
}

// ParseAdoptionStatus converts raw input into an AdoptionStatus.
func ParseAdoptionStatus(value string) (AdoptionStatus, error) {
	for _, candidate := range validAdoptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adoption status %q", value)
}
