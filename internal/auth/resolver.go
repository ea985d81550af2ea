package auth

import (
	"context"
	"log/slog"

	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

// LegacyCompanyID is a placeholder written by old migrations. Memberships that
// reference it are garbage: they are deleted on sight and the pointer is
// treated as if the company did not exist.
const LegacyCompanyID = "legacy-company"

// MembershipStore is the slice of the document store the resolver needs.
// Implementations must return (nil, nil) for absent records and use a
// merge/upsert write for UpsertMembership so that concurrent first
// resolutions of the same pair converge on a single row.
type MembershipStore interface {
	GetCompany(ctx context.Context, companyID string) (*companyDatamodel.Company, error)
	GetMembership(ctx context.Context, userID, companyID string) (*companyDatamodel.CompanyMembership, error)
	UpsertMembership(ctx context.Context, userID, companyID string, role string) error
	DeleteMembership(ctx context.Context, userID, companyID string) error
	ClearUserCompany(ctx context.Context, userID string) error
}

// MembershipResolver determines a user's effective role within a company,
// self-healing missing membership rows instead of failing.
type MembershipResolver struct {
	store  MembershipStore
	logger *slog.Logger
}

func NewMembershipResolver(store MembershipStore, logger *slog.Logger) *MembershipResolver {
	return &MembershipResolver{
		store:  store,
		logger: logger,
	}
}

type resolutionKind int

const (
	resolutionFound resolutionKind = iota
	resolutionOwnerImplicit
	resolutionUnclassifiedMember
	resolutionNoCompany
)

// resolution is the tagged outcome of classifying a (userID, companyID) pair.
// Each kind maps to exactly one action in ResolveRole.
type resolution struct {
	kind resolutionKind
	role Role
}

func (r *MembershipResolver) classify(ctx context.Context, userID, companyID string) (resolution, error) {
	if companyID == LegacyCompanyID {
		// Stale rows referencing the legacy placeholder must never surface
		// as a valid role.
		if err := r.store.DeleteMembership(ctx, userID, companyID); err != nil {
			r.logger.Warn("failed to delete legacy membership", "user_id", userID, "error", err)
		}
		return resolution{kind: resolutionNoCompany}, nil
	}

	membership, err := r.store.GetMembership(ctx, userID, companyID)
	if err != nil {
		return resolution{}, err
	}
	if membership != nil {
		return resolution{kind: resolutionFound, role: ParseRole(membership.Role)}, nil
	}

	company, err := r.store.GetCompany(ctx, companyID)
	if err != nil {
		return resolution{}, err
	}
	if company == nil {
		return resolution{kind: resolutionNoCompany}, nil
	}

	if company.OwnerUserID == userID {
		return resolution{kind: resolutionOwnerImplicit}, nil
	}
	return resolution{kind: resolutionUnclassifiedMember}, nil
}

// ResolveRole returns the user's effective role in the company.
//
// The membership row, once it exists, is authoritative. Missing rows are
// repaired: the stored company owner gets an admin row, any other member of
// an existing company gets a staff row. A missing company clears the user's
// stale company pointer and yields RoleNone. Storage failures degrade to
// RoleNone rather than propagating; a backend hiccup must never grant
// elevated access.
func (r *MembershipResolver) ResolveRole(ctx context.Context, userID, companyID string) Role {
	if userID == "" || companyID == "" {
		return RoleNone
	}

	res, err := r.classify(ctx, userID, companyID)
	if err != nil {
		r.logger.Error("membership classification failed, defaulting to no access",
			"user_id", userID, "company_id", companyID, "error", err)
		return RoleNone
	}

	switch res.kind {
	case resolutionFound:
		return res.role

	case resolutionOwnerImplicit:
		// Repairs companies whose creator never got an explicit row.
		if err := r.store.UpsertMembership(ctx, userID, companyID, string(RoleAdmin)); err != nil {
			r.logger.Error("failed to persist owner membership, defaulting to no access",
				"user_id", userID, "company_id", companyID, "error", err)
			return RoleNone
		}
		r.logger.Info("synthesized owner membership", "user_id", userID, "company_id", companyID)
		return RoleAdmin

	case resolutionUnclassifiedMember:
		if err := r.store.UpsertMembership(ctx, userID, companyID, string(RoleStaff)); err != nil {
			r.logger.Error("failed to persist member membership, defaulting to no access",
				"user_id", userID, "company_id", companyID, "error", err)
			return RoleNone
		}
		r.logger.Info("synthesized staff membership", "user_id", userID, "company_id", companyID)
		return RoleStaff

	default:
		if err := r.store.ClearUserCompany(ctx, userID); err != nil {
			r.logger.Warn("failed to clear stale company pointer",
				"user_id", userID, "company_id", companyID, "error", err)
		}
		return RoleNone
	}
}
