package animals

import "github.com/pawwelfare/shelter-backend/pkg/db/models"

func (in CreateAnimalInput) toModel() *models.Animal {
	return &models.Animal{
		Name:         in.Name,
		Species:      in.Species,
		Breed:        in.Breed,
		AgeMonths:    in.AgeMonths,
		Gender:       in.Gender,
		Size:         in.Size,
		HealthStatus: in.HealthStatus,
		Vaccinated:   in.Vaccinated,
		Neutered:     in.Neutered,
		Description:  in.Description,
		MedicalNotes: in.MedicalNotes,
	}
}

func (in UpdateAnimalInput) toUpdates() map[string]any {
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Breed != nil {
		updates["breed"] = *in.Breed
	}
	if in.AgeMonths != nil {
		updates["age_months"] = *in.AgeMonths
	}
	if in.Gender != nil {
		updates["gender"] = *in.Gender
	}
	if in.Size != nil {
		updates["size"] = *in.Size
	}
	if in.HealthStatus != nil {
		updates["health_status"] = *in.HealthStatus
	}
	if in.Vaccinated != nil {
		updates["vaccinated"] = *in.Vaccinated
	}
	if in.Neutered != nil {
		updates["neutered"] = *in.Neutered
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.MedicalNotes != nil {
		updates["medical_notes"] = in.MedicalNotes
	}
	return updates
}
