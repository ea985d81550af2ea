package company

import (
	"time"

	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerUserID string    `json:"owner_user_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a company member as returned by the members listing: the
// membership row joined with the user's profile fields.
type Member struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerUserID: c.OwnerUserID,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerUserID: c.OwnerUserID,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
