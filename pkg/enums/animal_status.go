package enums

import "fmt"

// AnimalStatus tracks an animal's availability in the registry.
type AnimalStatus string

const (
	AnimalStatusAvailable AnimalStatus = "available"
	AnimalStatusPending   AnimalStatus = "pending"
	AnimalStatusAdopted   AnimalStatus = "adopted"
	AnimalStatusArchived  AnimalStatus = "archived"
)

var validAnimalStatuses = []AnimalStatus{
	AnimalStatusAvailable,
	AnimalStatusPending,
	AnimalStatusAdopted,
	AnimalStatusArchived,
}

// String implements fmt.Stringer.
func (a AnimalStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AnimalStatus.
func (a AnimalStatus) IsValid() bool {
	for _, candidate := range validAnimalStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnimalStatus converts raw input into an AnimalStatus.
func ParseAnimalStatus(value string) (AnimalStatus, error) {
	for _, candidate := range validAnimalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal status %q", value)
}
