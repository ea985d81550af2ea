package postgres

import (
	"errors"

	"gorm.io/gorm"

	projectDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/project"
	"github.com/wirabuild/construction-management/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(record *projectDatamodel.Project) error {
	return r.db.Create(record).Error
}

func (r *ProjectRepository) GetProject(id string) (*projectDatamodel.Project, error) {
	var record projectDatamodel.Project
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *ProjectRepository) ListProjects(companyID string) ([]*projectDatamodel.Project, error) {
	var records []*projectDatamodel.Project
	err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ProjectRepository) UpdateProject(id string, updates map[string]interface{}) error {
	return r.db.Model(&projectDatamodel.Project{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ProjectRepository) DeleteProject(id string) error {
	return r.db.Where("id = ?", id).Delete(&projectDatamodel.Project{}).Error
}

func (r *ProjectRepository) SumApprovedReimbursements(projectID string) (int64, error) {
	return r.sum("SELECT COALESCE(SUM(amount), 0) FROM reimbursements WHERE project_id = ? AND status = 'approved'", projectID)
}

func (r *ProjectRepository) SumAssignmentCosts(projectID string) (int64, error) {
	return r.sum("SELECT COALESCE(SUM(cost), 0) FROM task_assignments WHERE project_id = ?", projectID)
}

func (r *ProjectRepository) SumIncomes(projectID string) (int64, error) {
	return r.sum("SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE project_id = ?", projectID)
}

func (r *ProjectRepository) SetActuals(projectID string, actualCost, revenue int64) error {
	return r.db.Model(&projectDatamodel.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"actual_cost": actualCost,
			"revenue":     revenue,
		}).Error
}

func (r *ProjectRepository) sum(query, projectID string) (int64, error) {
	var total int64
	err := r.db.Raw(query, projectID).Scan(&total).Error
	return total, err
}
