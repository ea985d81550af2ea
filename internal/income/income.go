package income

import (
	"errors"
	"strings"
	"time"

	incomeDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/income"
)

type Income struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	ProjectID   string    `json:"project_id"`
	Amount      int64     `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateIncomeDTO struct {
	Amount      int64      `json:"amount"`
	Source      string     `json:"source"`
	Description string     `json:"description"`
	ReceivedAt  *time.Time `json:"received_at"`
}

func (d *CreateIncomeDTO) Validate() error {
	if d.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if strings.TrimSpace(d.Source) == "" {
		return errors.New("source is required")
	}
	return nil
}

func FromDataModel(record *incomeDatamodel.Income) *Income {
	return &Income{
		ID:          record.ID,
		CompanyID:   record.CompanyID,
		ProjectID:   record.ProjectID,
		Amount:      record.Amount,
		Source:      record.Source,
		Description: record.Description,
		ReceivedAt:  record.ReceivedAt,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
