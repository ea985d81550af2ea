package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notificationDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/notification"
	"github.com/wirabuild/construction-management/internal/notification"
)

type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) notification.DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

func (r *DeviceTokenRepository) UpsertDeviceToken(ctx context.Context, userID, token, platform string) error {
	record := &notificationDatamodel.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "updated_at"}),
	}).Create(record).Error
}

func (r *DeviceTokenRepository) ListDeviceTokens(ctx context.Context, userIDs []string) ([]*notification.DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var records []notificationDatamodel.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]*notification.DeviceToken, 0, len(records))
	for i := range records {
		tokens = append(tokens, &notification.DeviceToken{
			UserID:    records[i].UserID,
			Token:     records[i].Token,
			Platform:  records[i].Platform,
			CreatedAt: records[i].CreatedAt,
			UpdatedAt: records[i].UpdatedAt,
		})
	}
	return tokens, nil
}

func (r *DeviceTokenRepository) DeleteDeviceToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&notificationDatamodel.DeviceToken{}).Error
}
