package company

import "time"

type Company struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	OwnerUserID string    `gorm:"column:owner_user_id;not null"`
	MemberCount int       `gorm:"column:member_count;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanyMembership joins a user to a company. The (user_id, company_id)
// pair is the primary key: the storage layer, not application code, is what
// guarantees at most one row per pair.
type CompanyMembership struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:uuid"`
	CompanyID string    `gorm:"primaryKey;column:company_id;type:uuid"`
	Role      string    `gorm:"column:role;not null"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyMembership) TableName() string {
	return "company_memberships"
}
