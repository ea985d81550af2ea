package project

import (
	"time"

	projectDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/project"
)

type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	Status      Status     `json:"status"`
	Budget      int64      `json:"budget"`
	ActualCost  int64      `json:"actual_cost"`
	Revenue     int64      `json:"revenue"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromDataModel(record *projectDatamodel.Project) *Project {
	return &Project{
		ID:          record.ID,
		CompanyID:   record.CompanyID,
		Name:        record.Name,
		Description: record.Description,
		Address:     record.Address,
		Status:      Status(record.Status),
		Budget:      record.Budget,
		ActualCost:  record.ActualCost,
		Revenue:     record.Revenue,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
