package project

import (
	"time"

	errors "github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/core/common/validation"
)

type CreateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Budget      int64      `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (d *CreateProjectDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("name", d.Name).Required().MaxLength(200)
	validator.Field("budget", d.Budget).MinInt(0, errors.ErrCodeInvalidAmount)
	validator.Field("end_date", d.EndDate).Custom(func(interface{}) *errors.AppError {
		if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
			return errors.NewValidationFieldError("end_date", "end date cannot be before start date", errors.ErrCodeInvalidDate)
		}
		return nil
	})

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateProjectDTO struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Address     *string    `json:"address"`
	Status      *string    `json:"status"`
	Budget      *int64     `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (d *UpdateProjectDTO) Validate() error {
	validator := validation.NewValidator()

	if d.Name != nil {
		validator.Field("name", *d.Name).Required().MaxLength(200)
	}
	if d.Status != nil {
		validator.Field("status", *d.Status).OneOf([]string{
			string(StatusPlanning), string(StatusActive), string(StatusOnHold), string(StatusCompleted),
		}, errors.ErrCodeValidationFailed)
	}
	if d.Budget != nil {
		validator.Field("budget", *d.Budget).MinInt(0, errors.ErrCodeInvalidAmount)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
