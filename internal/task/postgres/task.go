package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	taskDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/task"
	"github.com/wirabuild/construction-management/internal/task"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(record *taskDatamodel.Task) error {
	return r.db.Create(record).Error
}

func (r *TaskRepository) GetTask(id string) (*taskDatamodel.Task, error) {
	var record taskDatamodel.Task
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *TaskRepository) ListTasks(projectID string) ([]*taskDatamodel.Task, error) {
	var records []*taskDatamodel.Task
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *TaskRepository) UpdateTaskStatus(id string, status string) error {
	return r.db.Model(&taskDatamodel.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *TaskRepository) DeleteTask(id string) error {
	return r.db.Where("id = ?", id).Delete(&taskDatamodel.Task{}).Error
}

func (r *TaskRepository) GetAssignment(taskID, staffUserID string) (*taskDatamodel.TaskAssignment, error) {
	var record taskDatamodel.TaskAssignment
	err := r.db.Where("task_id = ? AND staff_user_id = ?", taskID, staffUserID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *TaskRepository) GetAssignmentByID(id string) (*taskDatamodel.TaskAssignment, error) {
	var record taskDatamodel.TaskAssignment
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *TaskRepository) CreateAssignment(record *taskDatamodel.TaskAssignment) error {
	return r.db.Create(record).Error
}

func (r *TaskRepository) CompleteAssignment(id string, completedAt time.Time) error {
	return r.db.Model(&taskDatamodel.TaskAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(task.AssignmentStatusCompleted),
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		}).Error
}

func (r *TaskRepository) ListAssignmentsByProject(projectID string) ([]*taskDatamodel.TaskAssignment, error) {
	var records []*taskDatamodel.TaskAssignment
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *TaskRepository) ListAssignmentsByStaff(staffUserID string) ([]*taskDatamodel.TaskAssignment, error) {
	var records []*taskDatamodel.TaskAssignment
	err := r.db.Where("staff_user_id = ?", staffUserID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
