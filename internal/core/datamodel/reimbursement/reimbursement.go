package reimbursement

import "time"

type Reimbursement struct {
	ID          string     `gorm:"column:id;primaryKey"`
	CompanyID   string     `gorm:"column:company_id;index"`
	ProjectID   string     `gorm:"column:project_id;index"`
	UserID      string     `gorm:"column:user_id;index"`
	Amount      int64      `gorm:"column:amount"`
	Description string     `gorm:"column:description"`
	Category    string     `gorm:"column:category"`
	ReceiptURL  string     `gorm:"column:receipt_url"`
	Status      string     `gorm:"column:status;default:pending"`
	ProcessedAt *time.Time `gorm:"column:processed_at"`
	ProcessedBy *string    `gorm:"column:processed_by"`
	RejectReason string    `gorm:"column:reject_reason"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reimbursement) TableName() string {
	return "reimbursements"
}
