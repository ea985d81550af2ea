package company

import (
	errors "github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/core/common/validation"
)

// CreateCompanyDTO is the payload for creating a company.
type CreateCompanyDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (dto CreateCompanyDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("name", dto.Name).Required().MaxLength(120)
	validator.Field("description", dto.Description).MaxLength(1000)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateCompanyDTO allows editing name and description only; everything else
// on the company record is immutable through this path.
type UpdateCompanyDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto UpdateCompanyDTO) Validate() error {
	if dto.Name == nil && dto.Description == nil {
		return errors.NewValidationError("nothing to update", errors.ErrCodeValidationFailed)
	}

	validator := validation.NewValidator()
	if dto.Name != nil {
		validator.Field("name", *dto.Name).Required().MaxLength(120)
	}
	if dto.Description != nil {
		validator.Field("description", *dto.Description).MaxLength(1000)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ChangeRoleDTO is the payload for changing a member's role.
type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (dto ChangeRoleDTO) Validate() error {
	if appErr := validation.ValidateRole(dto.Role); appErr != nil {
		return appErr
	}
	return nil
}
