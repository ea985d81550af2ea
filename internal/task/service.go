package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	taskDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/task"
	"github.com/wirabuild/construction-management/internal/core/events"
)

// Repository is the data access surface for tasks and assignments.
type Repository interface {
	CreateTask(record *taskDatamodel.Task) error
	GetTask(id string) (*taskDatamodel.Task, error)
	ListTasks(projectID string) ([]*taskDatamodel.Task, error)
	UpdateTaskStatus(id string, status string) error
	DeleteTask(id string) error

	GetAssignment(taskID, staffUserID string) (*taskDatamodel.TaskAssignment, error)
	GetAssignmentByID(id string) (*taskDatamodel.TaskAssignment, error)
	CreateAssignment(record *taskDatamodel.TaskAssignment) error
	CompleteAssignment(id string, completedAt time.Time) error
	ListAssignmentsByProject(projectID string) ([]*taskDatamodel.TaskAssignment, error)
	ListAssignmentsByStaff(staffUserID string) ([]*taskDatamodel.TaskAssignment, error)
}

// Service handles task and assignment business logic.
type Service struct {
	repo     Repository
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateTask adds a task to a project in the actor's company.
func (s *Service) CreateTask(ctx context.Context, actor *auth.User, projectID string, dto CreateTaskDTO) (*Task, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record := &taskDatamodel.Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		CompanyID:   *actor.CompanyID,
		Name:        dto.Name,
		Description: dto.Description,
		UnitPrice:   dto.UnitPrice,
		Status:      string(StatusOpen),
	}

	if err := s.repo.CreateTask(record); err != nil {
		s.logger.Error("failed to create task", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	s.logger.Info("task created", "task_id", record.ID, "project_id", projectID)
	return FromDataModel(record), nil
}

// ListTasks returns the project's tasks.
func (s *Service) ListTasks(ctx context.Context, projectID string) ([]*Task, error) {
	records, err := s.repo.ListTasks(projectID)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}

	tasks := make([]*Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, FromDataModel(record))
	}
	return tasks, nil
}

// UpdateStatus moves a task through open -> in_progress -> done (any
// direction; construction schedules slip).
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.User, taskID string, status Status) (*Task, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if !status.Valid() {
		return nil, internal.NewValidationError("invalid task status", internal.ErrCodeValidationFailed)
	}

	record, err := s.loadScoped(actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTaskStatus(taskID, string(status)); err != nil {
		s.logger.Error("failed to update task status", "error", err, "task_id", taskID)
		return nil, internal.NewInternalError("failed to update task", err)
	}

	record.Status = string(status)
	return FromDataModel(record), nil
}

// DeleteTask removes a task from the project.
func (s *Service) DeleteTask(ctx context.Context, actor *auth.User, taskID string) error {
	if actor.CompanyID == nil {
		return internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageProjects {
		return internal.ErrUnauthorizedAccess
	}

	if _, err := s.loadScoped(actor, taskID); err != nil {
		return err
	}

	if err := s.repo.DeleteTask(taskID); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		return internal.NewInternalError("failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", taskID, "actor_id", actor.ID)
	return nil
}

// loadScoped fetches a task and hides it when it belongs to another company.
func (s *Service) loadScoped(actor *auth.User, taskID string) (*taskDatamodel.Task, error) {
	record, err := s.repo.GetTask(taskID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load task", err)
	}
	if record == nil || record.CompanyID != *actor.CompanyID {
		return nil, internal.NewNotFoundError("Task not found", internal.ErrCodeTaskNotFound)
	}
	return record, nil
}

// BulkAssign walks the cartesian product of staff and task ids, creating one
// assignment per new pair. Existing pairs are skipped, missing tasks are
// reported, and one bad pair never aborts the rest of the batch.
func (s *Service) BulkAssign(ctx context.Context, actor *auth.User, dto BulkAssignDTO) ([]AssignmentResult, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	quantity := dto.Quantity
	if quantity == 0 {
		quantity = 1
	}

	results := make([]AssignmentResult, 0, len(dto.TaskIDs)*len(dto.StaffUserIDs))
	for _, taskID := range dto.TaskIDs {
		taskRecord, err := s.repo.GetTask(taskID)
		if err != nil {
			s.logger.Error("failed to load task for bulk assign", "error", err, "task_id", taskID)
			for _, staffID := range dto.StaffUserIDs {
				results = append(results, AssignmentResult{
					TaskID: taskID, StaffUserID: staffID,
					Outcome: OutcomeFailed, Reason: "task lookup failed",
				})
			}
			continue
		}
		if taskRecord == nil || taskRecord.CompanyID != *actor.CompanyID {
			for _, staffID := range dto.StaffUserIDs {
				results = append(results, AssignmentResult{
					TaskID: taskID, StaffUserID: staffID,
					Outcome: OutcomeFailed, Reason: ReasonNoSuchTask,
				})
			}
			continue
		}

		for _, staffID := range dto.StaffUserIDs {
			results = append(results, s.assignOne(ctx, taskRecord, staffID, quantity))
		}
	}

	s.logger.Info("bulk assignment processed",
		"tasks", len(dto.TaskIDs),
		"staff", len(dto.StaffUserIDs),
		"results", len(results))
	return results, nil
}

func (s *Service) assignOne(ctx context.Context, taskRecord *taskDatamodel.Task, staffID string, quantity int64) AssignmentResult {
	existing, err := s.repo.GetAssignment(taskRecord.ID, staffID)
	if err != nil {
		return AssignmentResult{
			TaskID: taskRecord.ID, StaffUserID: staffID,
			Outcome: OutcomeFailed, Reason: "assignment lookup failed",
		}
	}
	if existing != nil {
		return AssignmentResult{
			TaskID: taskRecord.ID, StaffUserID: staffID,
			AssignmentID: existing.ID,
			Outcome:      OutcomeSkipped, Reason: ReasonDuplicate,
		}
	}

	record := &taskDatamodel.TaskAssignment{
		ID:          uuid.NewString(),
		TaskID:      taskRecord.ID,
		StaffUserID: staffID,
		ProjectID:   taskRecord.ProjectID,
		Quantity:    quantity,
		Cost:        quantity * taskRecord.UnitPrice,
		Status:      string(AssignmentStatusAssigned),
	}
	if err := s.repo.CreateAssignment(record); err != nil {
		s.logger.Error("failed to create assignment",
			"error", err, "task_id", taskRecord.ID, "staff_user_id", staffID)
		return AssignmentResult{
			TaskID: taskRecord.ID, StaffUserID: staffID,
			Outcome: OutcomeFailed, Reason: "assignment write failed",
		}
	}

	if s.eventBus != nil {
		event := events.NewTaskAssignedEvent(record.ID, taskRecord.ID, taskRecord.ProjectID, staffID, taskRecord.Name)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish assignment event", "error", err, "assignment_id", record.ID)
		}
	}

	return AssignmentResult{
		TaskID: taskRecord.ID, StaffUserID: staffID,
		AssignmentID: record.ID,
		Outcome:      OutcomeAssigned,
	}
}

// CompleteAssignment marks an assignment done. Only the assigned staff member
// or a user who can manage projects may complete it.
func (s *Service) CompleteAssignment(ctx context.Context, actor *auth.User, assignmentID string) (*Assignment, error) {
	record, err := s.repo.GetAssignmentByID(assignmentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load assignment", err)
	}
	if record == nil {
		return nil, internal.NewNotFoundError("Assignment not found", internal.ErrCodeTaskNotFound)
	}
	if record.StaffUserID != actor.ID && !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if record.Status == string(AssignmentStatusCompleted) {
		return nil, internal.ErrCannotModifyRecord
	}

	completedAt := time.Now()
	if err := s.repo.CompleteAssignment(assignmentID, completedAt); err != nil {
		return nil, internal.NewInternalError("failed to complete assignment", err)
	}

	record.Status = string(AssignmentStatusCompleted)
	record.CompletedAt = &completedAt
	s.logger.Info("assignment completed", "assignment_id", assignmentID, "actor_id", actor.ID)
	return AssignmentFromDataModel(record), nil
}

// ListAssignmentsByProject returns every assignment on the project.
func (s *Service) ListAssignmentsByProject(ctx context.Context, projectID string) ([]*Assignment, error) {
	records, err := s.repo.ListAssignmentsByProject(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assignments", err)
	}
	return assignmentsFromDataModels(records), nil
}

// ListAssignmentsByStaff returns the staff member's own assignments.
func (s *Service) ListAssignmentsByStaff(ctx context.Context, staffUserID string) ([]*Assignment, error) {
	records, err := s.repo.ListAssignmentsByStaff(staffUserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assignments", err)
	}
	return assignmentsFromDataModels(records), nil
}

func assignmentsFromDataModels(records []*taskDatamodel.TaskAssignment) []*Assignment {
	assignments := make([]*Assignment, 0, len(records))
	for _, record := range records {
		assignments = append(assignments, AssignmentFromDataModel(record))
	}
	return assignments
}
