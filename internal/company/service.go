package company

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

// Repository is the data access surface for companies and memberships. It
// embeds the resolver's store view so a single postgres repository serves
// both the company service and the auth layer.
type Repository interface {
	auth.MembershipStore

	CreateCompany(c *companyDatamodel.Company) error
	UpdateCompany(id string, name, description *string) error
	ListMembers(companyID string) ([]*Member, error)
	AdjustMemberCount(companyID string, delta int) error
	SetUserCompany(userID, companyID string) error
}

// Service handles company and membership business logic.
type Service struct {
	repo     Repository
	resolver *auth.MembershipResolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *auth.MembershipResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// CreateCompany creates a company owned by the acting user, points the user
// at it and writes the owner's admin membership in the same breath so the
// resolver never has to repair it later.
func (s *Service) CreateCompany(ctx context.Context, ownerID string, dto CreateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &companyDatamodel.Company{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		OwnerUserID: ownerID,
		MemberCount: 1,
	}

	if err := s.repo.CreateCompany(record); err != nil {
		s.logger.Error("failed to create company", "error", err, "owner_id", ownerID)
		return nil, internal.NewInternalError("failed to create company", err)
	}

	if err := s.repo.UpsertMembership(ctx, ownerID, record.ID, string(auth.RoleAdmin)); err != nil {
		s.logger.Error("failed to create owner membership", "error", err, "company_id", record.ID)
		return nil, internal.NewInternalError("failed to create owner membership", err)
	}

	if err := s.repo.SetUserCompany(ownerID, record.ID); err != nil {
		s.logger.Error("failed to set owner company pointer", "error", err, "company_id", record.ID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("company created", "company_id", record.ID, "owner_id", ownerID)
	return FromDataModel(record), nil
}

// UpdateCompany edits name/description. Gated on ManageCompany at the route,
// re-checked here against the acting user's resolved role.
func (s *Service) UpdateCompany(ctx context.Context, actingUserID, companyID string, dto UpdateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := s.resolver.ResolveRole(ctx, actingUserID, companyID)
	if !auth.ExpandPermissions(role).CanManageCompany {
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := s.repo.UpdateCompany(companyID, dto.Name, dto.Description); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to update company", err)
	}

	record, err := s.repo.GetCompany(ctx, companyID)
	if err != nil || record == nil {
		return nil, internal.ErrCompanyNotFound
	}
	return FromDataModel(record), nil
}

// GetCompany returns the company record.
func (s *Service) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	record, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to get company", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to get company", err)
	}
	if record == nil {
		return nil, internal.ErrCompanyNotFound
	}
	return FromDataModel(record), nil
}

// JoinCompany adds the user to an existing company with the default staff
// role and points the user's profile at it.
func (s *Service) JoinCompany(ctx context.Context, userID, companyID string) error {
	record, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to load company for join", "error", err, "company_id", companyID)
		return internal.NewInternalError("failed to load company", err)
	}
	if record == nil {
		return internal.ErrCompanyNotFound
	}

	existing, err := s.repo.GetMembership(ctx, userID, companyID)
	if err != nil {
		return internal.NewInternalError("failed to check membership", err)
	}
	if existing != nil {
		return internal.ErrAlreadyMember
	}

	if err := s.repo.UpsertMembership(ctx, userID, companyID, string(auth.RoleStaff)); err != nil {
		return internal.NewInternalError("failed to create membership", err)
	}
	if err := s.repo.SetUserCompany(userID, companyID); err != nil {
		return internal.NewInternalError("failed to update user", err)
	}
	if err := s.repo.AdjustMemberCount(companyID, 1); err != nil {
		s.logger.Warn("failed to bump member count", "error", err, "company_id", companyID)
	}

	s.logger.Info("user joined company", "user_id", userID, "company_id", companyID)
	return nil
}

// LeaveCompany removes the user's membership and clears their pointer.
func (s *Service) LeaveCompany(ctx context.Context, userID, companyID string) error {
	membership, err := s.repo.GetMembership(ctx, userID, companyID)
	if err != nil {
		return internal.NewInternalError("failed to check membership", err)
	}
	if membership == nil {
		return internal.NewNotFoundError("Membership not found", internal.ErrCodeMembershipNotFound)
	}

	if err := s.repo.DeleteMembership(ctx, userID, companyID); err != nil {
		return internal.NewInternalError("failed to delete membership", err)
	}
	if err := s.repo.ClearUserCompany(ctx, userID); err != nil {
		return internal.NewInternalError("failed to update user", err)
	}
	if err := s.repo.AdjustMemberCount(companyID, -1); err != nil {
		s.logger.Warn("failed to drop member count", "error", err, "company_id", companyID)
	}

	s.logger.Info("user left company", "user_id", userID, "company_id", companyID)
	return nil
}

// ListMembers returns the company's members with their roles.
func (s *Service) ListMembers(ctx context.Context, companyID string) ([]*Member, error) {
	members, err := s.repo.ListMembers(companyID)
	if err != nil {
		s.logger.Error("failed to list members", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to list members", err)
	}
	return members, nil
}

// ChangeRole updates another member's role.
//
// The self-change guard runs before anything else: a user may never change
// their own role through this path, admin or not, so a compromised or
// confused client cannot demote the last admin or promote itself. Only after
// that does the acting user's own resolved capability set get checked.
func (s *Service) ChangeRole(ctx context.Context, actingUserID, targetUserID, companyID string, newRole auth.Role) error {
	if actingUserID == targetUserID {
		return internal.ErrCannotChangeOwnRole
	}

	if !newRole.Valid() {
		return internal.NewValidationError("role must be one of admin, staff, client", internal.ErrCodeInvalidRole)
	}

	actingRole := s.resolver.ResolveRole(ctx, actingUserID, companyID)
	if !auth.ExpandPermissions(actingRole).CanManageUsers {
		return internal.ErrUnauthorizedAccess
	}

	record, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return internal.NewInternalError("failed to load company", err)
	}
	if record == nil {
		return internal.ErrCompanyNotFound
	}

	if err := s.repo.UpsertMembership(ctx, targetUserID, companyID, string(newRole)); err != nil {
		s.logger.Error("failed to change role", "error", err,
			"target_user_id", targetUserID, "company_id", companyID, "new_role", newRole)
		return internal.NewInternalError("failed to change role", err)
	}

	s.logger.Info("member role changed",
		"acting_user_id", actingUserID,
		"target_user_id", targetUserID,
		"company_id", companyID,
		"new_role", newRole)
	return nil
}
