package postgres

import (
	"errors"

	"gorm.io/gorm"

	photoDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/photo"
	"github.com/wirabuild/construction-management/internal/photo"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) photo.Repository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) CreatePhoto(record *photoDatamodel.Photo) error {
	return r.db.Create(record).Error
}

func (r *PhotoRepository) GetPhoto(id string) (*photoDatamodel.Photo, error) {
	var record photoDatamodel.Photo
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *PhotoRepository) ListByProject(projectID string) ([]*photoDatamodel.Photo, error) {
	var records []*photoDatamodel.Photo
	err := r.db.Where("project_id = ?", projectID).
		Order("taken_at DESC").
		Find(&records).Error
	return records, err
}

func (r *PhotoRepository) DeletePhoto(id string) error {
	return r.db.Where("id = ?", id).Delete(&photoDatamodel.Photo{}).Error
}
