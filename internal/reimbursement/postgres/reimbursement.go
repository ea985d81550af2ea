package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	reimbursementDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/reimbursement"
	"github.com/wirabuild/construction-management/internal/reimbursement"
)

type ReimbursementRepository struct {
	db *gorm.DB
}

func NewReimbursementRepository(db *gorm.DB) reimbursement.Repository {
	return &ReimbursementRepository{db: db}
}

func (r *ReimbursementRepository) CreateReimbursement(record *reimbursementDatamodel.Reimbursement) error {
	return r.db.Create(record).Error
}

func (r *ReimbursementRepository) GetReimbursement(id string) (*reimbursementDatamodel.Reimbursement, error) {
	var record reimbursementDatamodel.Reimbursement
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *ReimbursementRepository) ListByProject(projectID string) ([]*reimbursementDatamodel.Reimbursement, error) {
	var records []*reimbursementDatamodel.Reimbursement
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ReimbursementRepository) SetStatus(id, status string, processedBy string, processedAt time.Time, rejectReason string) error {
	return r.db.Model(&reimbursementDatamodel.Reimbursement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"processed_by":  processedBy,
			"processed_at":  processedAt,
			"reject_reason": rejectReason,
			"updated_at":    time.Now(),
		}).Error
}
