package income

import "time"

type Income struct {
	ID          string    `gorm:"column:id;primaryKey"`
	CompanyID   string    `gorm:"column:company_id;index"`
	ProjectID   string    `gorm:"column:project_id;index"`
	Amount      int64     `gorm:"column:amount"`
	Source      string    `gorm:"column:source"`
	Description string    `gorm:"column:description"`
	ReceivedAt  time.Time `gorm:"column:received_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Income) TableName() string {
	return "incomes"
}
