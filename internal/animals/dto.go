package animals

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the animal listing.
type ListFilters struct {
	Status          *enums.AnimalStatus
	Species         string
	IncludeArchived bool
}

// AnimalSummary exposes the registry fields returned in the public list.
type AnimalSummary struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Species     string             `json:"species"`
	Breed       string             `json:"breed,omitempty"`
	AgeMonths   int                `json:"age_months"`
	Gender      string             `json:"gender,omitempty"`
	Size        string             `json:"size,omitempty"`
	Status      enums.AnimalStatus `json:"status"`
	Description string             `json:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// AnimalList wraps the paginated animals plus the next page cursor.
type AnimalList struct {
	Animals    []AnimalSummary `json:"animals"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// CreateAnimalInput carries the staff-provided fields for a new registry entry.
type CreateAnimalInput struct {
	Name         string
	Species      string
	Breed        string
	AgeMonths    int
	Gender       string
	Size         string
	HealthStatus string
	Vaccinated   bool
	Neutered     bool
	Description  string
	MedicalNotes *string
}

// UpdateAnimalInput carries optional staff edits. Nil fields are untouched.
type UpdateAnimalInput struct {
	Name         *string
	Breed        *string
	AgeMonths    *int
	Gender       *string
	Size         *string
	HealthStatus *string
	Vaccinated   *bool
	Neutered     *bool
	Description  *string
	MedicalNotes *string
}
