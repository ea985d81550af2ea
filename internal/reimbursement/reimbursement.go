package reimbursement

import (
	"time"

	reimbursementDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/reimbursement"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Reimbursement struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	ProjectID    string     `json:"project_id"`
	UserID       string     `json:"user_id"`
	Amount       int64      `json:"amount"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	ReceiptURL   string     `json:"receipt_url,omitempty"`
	Status       Status     `json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	ProcessedBy  *string    `json:"processed_by,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromDataModel(record *reimbursementDatamodel.Reimbursement) *Reimbursement {
	return &Reimbursement{
		ID:           record.ID,
		CompanyID:    record.CompanyID,
		ProjectID:    record.ProjectID,
		UserID:       record.UserID,
		Amount:       record.Amount,
		Description:  record.Description,
		Category:     record.Category,
		ReceiptURL:   record.ReceiptURL,
		Status:       Status(record.Status),
		ProcessedAt:  record.ProcessedAt,
		ProcessedBy:  record.ProcessedBy,
		RejectReason: record.RejectReason,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
