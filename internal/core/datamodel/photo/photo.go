package photo

import "time"

type Photo struct {
	ID             string    `gorm:"column:id;primaryKey"`
	CompanyID      string    `gorm:"column:company_id;index"`
	ProjectID      string    `gorm:"column:project_id;index"`
	UploaderUserID string    `gorm:"column:uploader_user_id"`
	ObjectKey      string    `gorm:"column:object_key"`
	URL            string    `gorm:"column:url"`
	Caption        string    `gorm:"column:caption"`
	ContentType    string    `gorm:"column:content_type"`
	Size           int64     `gorm:"column:size"`
	TakenAt        time.Time `gorm:"column:taken_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Photo) TableName() string {
	return "photos"
}
