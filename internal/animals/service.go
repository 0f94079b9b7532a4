package animals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawwelfare/shelter-backend/pkg/enums"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/pagination"
)

// Service defines registry operations for staff and public listings. Animal
// lifecycle status is never written here; only the adoption engine moves it
// between available, pending and adopted.
type Service interface {
	CreateAnimal(ctx context.Context, input CreateAnimalInput) (*AnimalSummary, error)
	GetAnimal(ctx context.Context, id uuid.UUID) (*AnimalSummary, error)
	ListAnimals(ctx context.Context, params pagination.Params, filters ListFilters) (*AnimalList, error)
	UpdateAnimal(ctx context.Context, id uuid.UUID, input UpdateAnimalInput) error
	ArchiveAnimal(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an animal registry service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("animals repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateAnimal(ctx context.Context, input CreateAnimalInput) (*AnimalSummary, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "animal name required")
	}
	if strings.TrimSpace(input.Species) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "animal species required")
	}
	if input.AgeMonths < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "age cannot be negative")
	}

	row, err := s.repo.Create(ctx, input.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create animal")
	}
	summary := toSummary(*row)
	return &summary, nil
}

func (s *service) GetAnimal(ctx context.Context, id uuid.UUID) (*AnimalSummary, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "animal id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load animal")
	}
	summary := toSummary(*row)
	return &summary, nil
}

func (s *service) ListAnimals(ctx context.Context, params pagination.Params, filters ListFilters) (*AnimalList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list animals")
	}
	return list, nil
}

func (s *service) UpdateAnimal(ctx context.Context, id uuid.UUID, input UpdateAnimalInput) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "animal id required")
	}

	updates := input.toUpdates()
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load animal")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update animal")
	}
	return nil
}

func (s *service) ArchiveAnimal(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "animal id required")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "animal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load animal")
	}
	if row.Status == enums.AnimalStatusArchived {
		return nil
	}
	if row.Status == enums.AnimalStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "animal has an active adoption request")
	}

	ok, err := s.repo.TrySetStatus(ctx, id, row.Status, enums.AnimalStatusArchived)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive animal")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "animal status changed, retry archive")
	}
	return nil
}
