package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wirabuild/construction-management/internal/company"
	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

// CompanyRepository implements company.Repository (and with it the auth
// layer's membership store) using GORM.
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) CreateCompany(c *companyDatamodel.Company) error {
	return r.db.Create(c).Error
}

func (r *CompanyRepository) GetCompany(ctx context.Context, companyID string) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := r.db.WithContext(ctx).Where("id = ?", companyID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) UpdateCompany(id string, name, description *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	return r.db.Model(&companyDatamodel.Company{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *CompanyRepository) GetMembership(ctx context.Context, userID, companyID string) (*companyDatamodel.CompanyMembership, error) {
	var m companyDatamodel.CompanyMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpsertMembership writes the membership as a merge: the composite primary
// key plus ON CONFLICT makes concurrent first resolutions of the same pair
// converge on one row (last write wins on the role column).
func (r *CompanyRepository) UpsertMembership(ctx context.Context, userID, companyID, role string) error {
	m := companyDatamodel.CompanyMembership{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now(),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(&m).Error
}

func (r *CompanyRepository) DeleteMembership(ctx context.Context, userID, companyID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Delete(&companyDatamodel.CompanyMembership{}).Error
}

func (r *CompanyRepository) ClearUserCompany(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"company_id": nil,
			"updated_at": time.Now(),
		}).Error
}

func (r *CompanyRepository) SetUserCompany(userID, companyID string) error {
	return r.db.
		Table("users").
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"company_id": companyID,
			"updated_at": time.Now(),
		}).Error
}

func (r *CompanyRepository) ListMembers(companyID string) ([]*company.Member, error) {
	var members []*company.Member
	err := r.db.
		Table("company_memberships").
		Select("company_memberships.user_id, users.name, users.email, company_memberships.role, company_memberships.joined_at").
		Joins("JOIN users ON users.id = company_memberships.user_id").
		Where("company_memberships.company_id = ?", companyID).
		Order("company_memberships.joined_at ASC").
		Scan(&members).Error
	return members, err
}

func (r *CompanyRepository) AdjustMemberCount(companyID string, delta int) error {
	return r.db.Model(&companyDatamodel.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]interface{}{
			"member_count": gorm.Expr("member_count + ?", delta),
			"updated_at":   time.Now(),
		}).Error
}
