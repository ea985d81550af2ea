package project

import "time"

type Project struct {
	ID          string     `gorm:"column:id;primaryKey"`
	CompanyID   string     `gorm:"column:company_id;index"`
	Name        string     `gorm:"column:name"`
	Description string     `gorm:"column:description"`
	Address     string     `gorm:"column:address"`
	Status      string     `gorm:"column:status;default:planning"`
	Budget      int64      `gorm:"column:budget"`
	ActualCost  int64      `gorm:"column:actual_cost"`
	Revenue     int64      `gorm:"column:revenue"`
	StartDate   *time.Time `gorm:"column:start_date"`
	EndDate     *time.Time `gorm:"column:end_date"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
