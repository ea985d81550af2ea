package reimbursement

import (
	"github.com/wirabuild/construction-management/internal/core/common/validation"
)

type SubmitReimbursementDTO struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ReceiptURL  string `json:"receipt_url"`
}

func (d *SubmitReimbursementDTO) Validate() error {
	if appErr := validation.ValidateReimbursementAmount(d.Amount); appErr != nil {
		return appErr
	}

	validator := validation.NewValidator()
	validator.Field("description", d.Description).Required().MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RejectReimbursementDTO struct {
	Reason string `json:"reason"`
}
