package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	userDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/user"
	"github.com/wirabuild/construction-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID string) (*user.User, error) {
	var record userDatamodel.User
	err := r.db.Where("id = ? AND is_active = true", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&record), nil
}

func (r *UserRepository) UpdateProfile(userID string, name, phone, preferences *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if name != nil {
		updates["name"] = *name
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if preferences != nil {
		updates["preferences"] = *preferences
	}
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}
