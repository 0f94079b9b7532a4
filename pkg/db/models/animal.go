package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
)

// Animal is a registry record for an adoptable animal. Its status field is
// mutated only through the adoption lifecycle engine's conditional updates.
type Animal struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Species      string             `gorm:"column:species;not null"`
	Breed        string             `gorm:"column:breed"`
	AgeMonths    int                `gorm:"column:age_months;not null;default:0"`
	Gender       string             `gorm:"column:gender"`
	Size         string             `gorm:"column:size"`
	HealthStatus string             `gorm:"column:health_status"`
	Vaccinated   bool               `gorm:"column:vaccinated;not null;default:false"`
	Neutered     bool               `gorm:"column:neutered;not null;default:false"`
	Description  string             `gorm:"column:description"`
	MedicalNotes *string            `gorm:"column:medical_notes"`
	Status       enums.AnimalStatus `gorm:"column:status;type:animal_status;not null;default:'available'"`
	ArchivedAt   *time.Time         `gorm:"column:archived_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
