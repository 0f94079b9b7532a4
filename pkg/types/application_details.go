package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ApplicationDetails captures the free-form adoption application answers.
// Fields are required for presence only; the content is not semantically
// validated beyond that.
type ApplicationDetails struct {
	HousingType          string `json:"housing_type"`
	HasYard              bool   `json:"has_yard"`
	HasOtherPets         bool   `json:"has_other_pets"`
	OtherPetsDescription string `json:"other_pets_description,omitempty"`
	HasChildren          bool   `json:"has_children"`
	ChildrenAges         string `json:"children_ages,omitempty"`
	WorkSchedule         string `json:"work_schedule"`
	Experience           string `json:"experience"`
	ReasonForAdopting    string `json:"reason_for_adopting"`
}

// MissingFields lists the required answers that are absent.
func (a ApplicationDetails) MissingFields() []string {
	missing := []string{}
	if strings.TrimSpace(a.HousingType) == "" {
		missing = append(missing, "housing_type")
	}
	if strings.TrimSpace(a.WorkSchedule) == "" {
		missing = append(missing, "work_schedule")
	}
	if strings.TrimSpace(a.Experience) == "" {
		missing = append(missing, "experience")
	}
	if strings.TrimSpace(a.ReasonForAdopting) == "" {
		missing = append(missing, "reason_for_adopting")
	}
	if a.HasOtherPets && strings.TrimSpace(a.OtherPetsDescription) == "" {
		missing = append(missing, "other_pets_description")
	}
	if a.HasChildren && strings.TrimSpace(a.ChildrenAges) == "" {
		missing = append(missing, "children_ages")
	}
	return missing
}

// Value serializes the application details to JSON.
func (a *ApplicationDetails) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the application details struct.
func (a *ApplicationDetails) Scan(value interface{}) error {
	if value == nil {
		*a = ApplicationDetails{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
