package task

import (
	"time"

	taskDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/task"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnitPrice   int64     `json:"unit_price"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Assignment struct {
	ID          string           `json:"id"`
	TaskID      string           `json:"task_id"`
	StaffUserID string           `json:"staff_user_id"`
	ProjectID   string           `json:"project_id"`
	Quantity    int64            `json:"quantity"`
	Cost        int64            `json:"cost"`
	Status      AssignmentStatus `json:"status"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AssignmentResult is one cell of the bulk-assign cartesian: what happened
// for a single (task, staff) pair.
type AssignmentResult struct {
	TaskID       string `json:"task_id"`
	StaffUserID  string `json:"staff_user_id"`
	AssignmentID string `json:"assignment_id,omitempty"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason,omitempty"`
}

const (
	OutcomeAssigned  = "assigned"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	ReasonDuplicate  = "already assigned"
	ReasonNoSuchTask = "task not found"
)

func FromDataModel(record *taskDatamodel.Task) *Task {
	return &Task{
		ID:          record.ID,
		ProjectID:   record.ProjectID,
		CompanyID:   record.CompanyID,
		Name:        record.Name,
		Description: record.Description,
		UnitPrice:   record.UnitPrice,
		Status:      Status(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func AssignmentFromDataModel(record *taskDatamodel.TaskAssignment) *Assignment {
	return &Assignment{
		ID:          record.ID,
		TaskID:      record.TaskID,
		StaffUserID: record.StaffUserID,
		ProjectID:   record.ProjectID,
		Quantity:    record.Quantity,
		Cost:        record.Cost,
		Status:      AssignmentStatus(record.Status),
		CompletedAt: record.CompletedAt,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
