package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawwelfare/shelter-backend/api/responses"
	"github.com/pawwelfare/shelter-backend/api/validators"
	animalsvc "github.com/pawwelfare/shelter-backend/internal/animals"
	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
)

// ListAnimals serves the public adoptable-animal listing.
func ListAnimals(svc animalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animal service unavailable"))
			return
		}

		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := animalsvc.ListFilters{
			Species: strings.TrimSpace(r.URL.Query().Get("species")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseAnimalStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
			filters.IncludeArchived = status == enums.AnimalStatusArchived
		}

		list, err := svc.ListAnimals(r.Context(), page, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ActiveRequestCounter reports how many live adoption requests hold an
// animal, shown as the interest badge on the detail view.
type ActiveRequestCounter interface {
	CountActiveByAnimal(ctx context.Context, animalID uuid.UUID) (int64, error)
}

type animalDetailResponse struct {
	Animal         *animalsvc.AnimalSummary `json:"animal"`
	ActiveRequests int64                    `json:"active_requests"`
}

// GetAnimal serves a single registry entry with its interest badge.
func GetAnimal(svc animalsvc.Service, interest ActiveRequestCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animal service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "animalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.GetAnimal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := animalDetailResponse{Animal: animal}
		if interest != nil {
			count, err := interest.CountActiveByAnimal(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			payload.ActiveRequests = count
		}
		responses.WriteSuccess(w, payload)
	}
}

// CreateAnimal handles staff registration of a new animal.
func CreateAnimal(svc animalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animal service unavailable"))
			return
		}

		var payload createAnimalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.CreateAnimal(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, animal)
	}
}

// UpdateAnimal handles staff edits to a registry entry.
func UpdateAnimal(svc animalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animal service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "animalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAnimalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateAnimal(r.Context(), id, payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		animal, err := svc.GetAnimal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, animal)
	}
}

// ArchiveAnimal removes an animal from the public listing.
func ArchiveAnimal(svc animalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "animal service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "animalID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ArchiveAnimal(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "archived"})
	}
}

type createAnimalRequest struct {
	Name         string  `json:"name" validate:"required"`
	Species      string  `json:"species" validate:"required"`
	Breed        string  `json:"breed,omitempty"`
	AgeMonths    int     `json:"age_months" validate:"min=0"`
	Gender       string  `json:"gender,omitempty" validate:"omitempty,oneof=male female unknown"`
	Size         string  `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	HealthStatus string  `json:"health_status,omitempty"`
	Vaccinated   bool    `json:"vaccinated"`
	Neutered     bool    `json:"neutered"`
	Description  string  `json:"description,omitempty"`
	MedicalNotes *string `json:"medical_notes,omitempty"`
}

func (r createAnimalRequest) toInput() animalsvc.CreateAnimalInput {
	return animalsvc.CreateAnimalInput{
		Name:         strings.TrimSpace(r.Name),
		Species:      strings.TrimSpace(r.Species),
		Breed:        strings.TrimSpace(r.Breed),
		AgeMonths:    r.AgeMonths,
		Gender:       r.Gender,
		Size:         r.Size,
		HealthStatus: r.HealthStatus,
		Vaccinated:   r.Vaccinated,
		Neutered:     r.Neutered,
		Description:  r.Description,
		MedicalNotes: r.MedicalNotes,
	}
}

type updateAnimalRequest struct {
	Name         *string `json:"name,omitempty"`
	Breed        *string `json:"breed,omitempty"`
	AgeMonths    *int    `json:"age_months,omitempty" validate:"omitempty,min=0"`
	Gender       *string `json:"gender,omitempty" validate:"omitempty,oneof=male female unknown"`
	Size         *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	HealthStatus *string `json:"health_status,omitempty"`
	Vaccinated   *bool   `json:"vaccinated,omitempty"`
	Neutered     *bool   `json:"neutered,omitempty"`
	Description  *string `json:"description,omitempty"`
	MedicalNotes *string `json:"medical_notes,omitempty"`
}

func (r updateAnimalRequest) toInput() animalsvc.UpdateAnimalInput {
	return animalsvc.UpdateAnimalInput{
		Name:         r.Name,
		Breed:        r.Breed,
		AgeMonths:    r.AgeMonths,
		Gender:       r.Gender,
		Size:         r.Size,
		HealthStatus: r.HealthStatus,
		Vaccinated:   r.Vaccinated,
		Neutered:     r.Neutered,
		Description:  r.Description,
		MedicalNotes: r.MedicalNotes,
	}
}
