package enums

import "fmt"

// IntentStatus is the engine's read-through view of a gateway payment intent.
type IntentStatus string

const (
	IntentStatusRequiresPayment IntentStatus = "requires_payment"
	IntentStatusSucceeded       IntentStatus = "succeeded"
	IntentStatusFailed          IntentStatus = "failed"
	IntentStatusCanceled        IntentStatus = "canceled"
)

var validIntentStatuses = []IntentStatus{
	IntentStatusRequiresPayment,
	IntentStatusSucceeded,
	IntentStatusFailed,
	IntentStatusCanceled,
}

// String implements fmt.Stringer.
func (i IntentStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known IntentStatus.
func (i IntentStatus) IsValid() bool {
	for _, candidate := range validIntentStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the gateway has converged on a final outcome.
func (i IntentStatus) IsTerminal() bool {
	switch i {
	case IntentStatusSucceeded, IntentStatusFailed, IntentStatusCanceled:
		return true
	}
	return false
}

// ParseIntentStatus converts raw input into an IntentStatus.
func ParseIntentStatus(value string) (IntentStatus, error) {
	for _, candidate := range validIntentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid intent status %q", value)
}
