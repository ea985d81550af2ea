package task

import (
	"errors"
	"strings"
)

type CreateTaskDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
}

func (d *CreateTaskDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	if d.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}
	return nil
}

type UpdateTaskStatusDTO struct {
	Status string `json:"status"`
}

type BulkAssignDTO struct {
	TaskIDs      []string `json:"task_ids"`
	StaffUserIDs []string `json:"staff_user_ids"`
	Quantity     int64    `json:"quantity"`
}

func (d *BulkAssignDTO) Validate() error {
	if len(d.TaskIDs) == 0 {
		return errors.New("at least one task id is required")
	}
	if len(d.StaffUserIDs) == 0 {
		return errors.New("at least one staff user id is required")
	}
	if d.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	return nil
}
