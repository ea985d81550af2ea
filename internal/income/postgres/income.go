package postgres

import (
	"errors"

	"gorm.io/gorm"

	incomeDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/income"
	"github.com/wirabuild/construction-management/internal/income"
)

type IncomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) income.Repository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) CreateIncome(record *incomeDatamodel.Income) error {
	return r.db.Create(record).Error
}

func (r *IncomeRepository) GetIncome(id string) (*incomeDatamodel.Income, error) {
	var record incomeDatamodel.Income
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *IncomeRepository) ListByProject(projectID string) ([]*incomeDatamodel.Income, error) {
	var records []*incomeDatamodel.Income
	err := r.db.Where("project_id = ?", projectID).
		Order("received_at DESC").
		Find(&records).Error
	return records, err
}

func (r *IncomeRepository) DeleteIncome(id string) error {
	return r.db.Where("id = ?", id).Delete(&incomeDatamodel.Income{}).Error
}
