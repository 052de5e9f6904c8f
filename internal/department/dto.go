package department

import (
	"strings"

	"github.com/nxthub/influencer-ops/internal"
)

type CreateDepartmentDTO struct {
	Name    string `json:"name" validate:"required"`
	HodName string `json:"hod_name,omitempty"`
}

func (dto CreateDepartmentDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "department name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateDepartmentDTO struct {
	Name    *string `json:"name,omitempty"`
	HodName *string `json:"hod_name,omitempty"`
}

func (dto UpdateDepartmentDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationFieldError("name", "department name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
