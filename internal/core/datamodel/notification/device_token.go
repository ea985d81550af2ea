package notification

import "time"

type DeviceToken struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Token     string    `gorm:"column:token;primaryKey"`
	Platform  string    `gorm:"column:platform"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
