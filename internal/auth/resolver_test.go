package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type membershipKey struct {
	userID    string
	companyID string
}

// Mock membership store backed by maps, tracking writes so specs can assert
// on self-healing behavior.
type mockMembershipStore struct {
	companies    map[string]*companyDatamodel.Company
	memberships  map[membershipKey]*companyDatamodel.CompanyMembership
	clearedUsers []string
	upsertCalls  int
	deleteCalls  int
	readError    error
	writeError   error
}

func newMockMembershipStore() *mockMembershipStore {
	return &mockMembershipStore{
		companies:   make(map[string]*companyDatamodel.Company),
		memberships: make(map[membershipKey]*companyDatamodel.CompanyMembership),
	}
}

func (m *mockMembershipStore) GetCompany(ctx context.Context, companyID string) (*companyDatamodel.Company, error) {
	if m.readError != nil {
		return nil, m.readError
	}
	return m.companies[companyID], nil
}

func (m *mockMembershipStore) GetMembership(ctx context.Context, userID, companyID string) (*companyDatamodel.CompanyMembership, error) {
	if m.readError != nil {
		return nil, m.readError
	}
	return m.memberships[membershipKey{userID, companyID}], nil
}

func (m *mockMembershipStore) UpsertMembership(ctx context.Context, userID, companyID, role string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.upsertCalls++
	key := membershipKey{userID, companyID}
	if existing, ok := m.memberships[key]; ok {
		existing.Role = role
		return nil
	}
	m.memberships[key] = &companyDatamodel.CompanyMembership{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	return nil
}

func (m *mockMembershipStore) DeleteMembership(ctx context.Context, userID, companyID string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.deleteCalls++
	delete(m.memberships, membershipKey{userID, companyID})
	return nil
}

func (m *mockMembershipStore) ClearUserCompany(ctx context.Context, userID string) error {
	if m.writeError != nil {
		return m.writeError
	}
	m.clearedUsers = append(m.clearedUsers, userID)
	return nil
}

var _ = ginkgo.Describe("MembershipResolver", func() {
	var (
		store    *mockMembershipStore
		resolver *MembershipResolver
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMockMembershipStore()
		resolver = NewMembershipResolver(store, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("ResolveRole", func() {
		ginkgo.Context("when a membership row already exists", func() {
			ginkgo.It("should return the stored role verbatim and perform no writes", func() {
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}
				store.memberships[membershipKey{"u1", "c1"}] = &companyDatamodel.CompanyMembership{
					UserID: "u1", CompanyID: "c1", Role: "client",
				}

				role := resolver.ResolveRole(ctx, "u1", "c1")

				// The explicit row wins even over the owner rule.
				gomega.Expect(role).To(gomega.Equal(RoleClient))
				gomega.Expect(store.upsertCalls).To(gomega.BeZero())
				gomega.Expect(store.clearedUsers).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the user owns the company but has no membership row", func() {
			ginkgo.It("should synthesize an admin membership", func() {
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}

				role := resolver.ResolveRole(ctx, "u1", "c1")

				gomega.Expect(role).To(gomega.Equal(RoleAdmin))
				gomega.Expect(store.memberships).To(gomega.HaveLen(1))
				gomega.Expect(store.memberships[membershipKey{"u1", "c1"}].Role).To(gomega.Equal("admin"))
			})

			ginkgo.It("should be idempotent: the second call hits the stored row", func() {
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}

				first := resolver.ResolveRole(ctx, "u1", "c1")
				second := resolver.ResolveRole(ctx, "u1", "c1")

				gomega.Expect(first).To(gomega.Equal(RoleAdmin))
				gomega.Expect(second).To(gomega.Equal(RoleAdmin))
				gomega.Expect(store.upsertCalls).To(gomega.Equal(1))
				gomega.Expect(store.memberships).To(gomega.HaveLen(1))
			})
		})

		ginkgo.Context("when the user is an unclassified member of an existing company", func() {
			ginkgo.It("should synthesize a staff membership", func() {
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}

				role := resolver.ResolveRole(ctx, "u2", "c1")

				gomega.Expect(role).To(gomega.Equal(RoleStaff))
				gomega.Expect(store.memberships).To(gomega.HaveLen(1))
				gomega.Expect(store.memberships[membershipKey{"u2", "c1"}].Role).To(gomega.Equal("staff"))
			})
		})

		ginkgo.Context("when the company does not exist", func() {
			ginkgo.It("should return RoleNone and clear the stale company pointer", func() {
				role := resolver.ResolveRole(ctx, "u1", "ghost-company")

				gomega.Expect(role).To(gomega.Equal(RoleNone))
				gomega.Expect(store.clearedUsers).To(gomega.ConsistOf("u1"))
				gomega.Expect(store.memberships).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the company id is the legacy placeholder", func() {
			ginkgo.It("should delete any membership referencing it and return RoleNone", func() {
				store.memberships[membershipKey{"u1", LegacyCompanyID}] = &companyDatamodel.CompanyMembership{
					UserID: "u1", CompanyID: LegacyCompanyID, Role: "admin",
				}

				role := resolver.ResolveRole(ctx, "u1", LegacyCompanyID)

				gomega.Expect(role).To(gomega.Equal(RoleNone))
				gomega.Expect(store.deleteCalls).To(gomega.Equal(1))
				gomega.Expect(store.memberships).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when inputs are empty", func() {
			ginkgo.It("should return RoleNone without touching the store", func() {
				gomega.Expect(resolver.ResolveRole(ctx, "", "c1")).To(gomega.Equal(RoleNone))
				gomega.Expect(resolver.ResolveRole(ctx, "u1", "")).To(gomega.Equal(RoleNone))
				gomega.Expect(store.upsertCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the store fails", func() {
			ginkgo.It("should degrade reads to RoleNone instead of propagating", func() {
				store.readError = errors.New("connection refused")
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}

				role := resolver.ResolveRole(ctx, "u1", "c1")

				gomega.Expect(role).To(gomega.Equal(RoleNone))
			})

			ginkgo.It("should not grant admin when the self-healing write fails", func() {
				store.companies["c1"] = &companyDatamodel.Company{ID: "c1", OwnerUserID: "u1"}
				store.writeError = errors.New("connection refused")

				role := resolver.ResolveRole(ctx, "u1", "c1")

				gomega.Expect(role).To(gomega.Equal(RoleNone))
			})
		})

		ginkgo.Context("when a row carries an unrecognized role string", func() {
			ginkgo.It("should resolve to RoleNone via ParseRole", func() {
				store.memberships[membershipKey{"u1", "c1"}] = &companyDatamodel.CompanyMembership{
					UserID: "u1", CompanyID: "c1", Role: "superuser",
				}

				role := resolver.ResolveRole(ctx, "u1", "c1")

				gomega.Expect(role).To(gomega.Equal(RoleNone))
				gomega.Expect(ExpandPermissions(role)).To(gomega.Equal(Permissions{}))
			})
		})
	})
})
