package task

import "time"

type Task struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	CompanyID   string    `gorm:"column:company_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	UnitPrice   int64     `gorm:"column:unit_price"`
	Status      string    `gorm:"column:status;default:open"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

type TaskAssignment struct {
	ID          string     `gorm:"column:id;primaryKey"`
	TaskID      string     `gorm:"column:task_id;uniqueIndex:idx_task_staff"`
	StaffUserID string     `gorm:"column:staff_user_id;uniqueIndex:idx_task_staff"`
	ProjectID   string     `gorm:"column:project_id;index"`
	Quantity    int64      `gorm:"column:quantity"`
	Cost        int64      `gorm:"column:cost"`
	Status      string     `gorm:"column:status;default:assigned"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}
