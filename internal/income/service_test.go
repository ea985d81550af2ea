package income

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	incomeDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/income"
	"github.com/wirabuild/construction-management/internal/project"
)

func TestIncome(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Income Module Suite")
}

type mockRepository struct {
	records map[string]*incomeDatamodel.Income
}

func newMockRepository() *mockRepository {
	return &mockRepository{records: make(map[string]*incomeDatamodel.Income)}
}

func (m *mockRepository) CreateIncome(record *incomeDatamodel.Income) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockRepository) GetIncome(id string) (*incomeDatamodel.Income, error) {
	return m.records[id], nil
}

func (m *mockRepository) ListByProject(projectID string) ([]*incomeDatamodel.Income, error) {
	var out []*incomeDatamodel.Income
	for _, record := range m.records {
		if record.ProjectID == projectID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *mockRepository) DeleteIncome(id string) error {
	delete(m.records, id)
	return nil
}

type mockRecomputer struct {
	recomputed []string
}

func (m *mockRecomputer) RecomputeActuals(_ context.Context, projectID string) (*project.Project, error) {
	m.recomputed = append(m.recomputed, projectID)
	return &project.Project{ID: projectID}, nil
}

func sessionUser(id, companyID string, role auth.Role) *auth.User {
	var cid *string
	if companyID != "" {
		cid = &companyID
	}
	return &auth.User{
		ID:          id,
		CompanyID:   cid,
		Role:        role,
		Permissions: auth.ExpandPermissions(role),
	}
}

var _ = Describe("Income Service", func() {
	var (
		repo       *mockRepository
		recomputer *mockRecomputer
		service    *Service
		ctx        context.Context
		admin      *auth.User
	)

	BeforeEach(func() {
		repo = newMockRepository()
		recomputer = &mockRecomputer{}
		service = NewService(repo, recomputer, slog.Default())
		ctx = context.Background()
		admin = sessionUser("admin-1", "company-1", auth.RoleAdmin)
	})

	Describe("Create", func() {
		It("records an income and recomputes revenue", func() {
			created, err := service.Create(ctx, admin, "proj-1", CreateIncomeDTO{Amount: 900000, Source: "progress payment"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ProjectID).To(Equal("proj-1"))
			Expect(recomputer.recomputed).To(ConsistOf("proj-1"))
		})

		It("is denied to staff", func() {
			staff := sessionUser("staff-1", "company-1", auth.RoleStaff)
			_, err := service.Create(ctx, staff, "proj-1", CreateIncomeDTO{Amount: 1, Source: "x"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Create(ctx, admin, "proj-1", CreateIncomeDTO{Amount: 0, Source: "x"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("removes the income and recomputes the project", func() {
			created, err := service.Create(ctx, admin, "proj-1", CreateIncomeDTO{Amount: 900000, Source: "progress payment"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, admin, created.ID)).To(Succeed())
			Expect(repo.records).To(BeEmpty())
			Expect(recomputer.recomputed).To(Equal([]string{"proj-1", "proj-1"}))
		})

		It("hides incomes belonging to another company", func() {
			created, err := service.Create(ctx, admin, "proj-1", CreateIncomeDTO{Amount: 1000, Source: "x"})
			Expect(err).NotTo(HaveOccurred())

			outsider := sessionUser("admin-2", "company-2", auth.RoleAdmin)
			Expect(service.Delete(ctx, outsider, created.ID)).To(Equal(internal.ErrIncomeNotFound))
		})
	})

	Describe("ListByProject", func() {
		It("filters out other companies' records", func() {
			_, err := service.Create(ctx, admin, "proj-1", CreateIncomeDTO{Amount: 1000, Source: "x"})
			Expect(err).NotTo(HaveOccurred())
			repo.records["foreign"] = &incomeDatamodel.Income{ID: "foreign", CompanyID: "company-2", ProjectID: "proj-1"}

			listed, err := service.ListByProject(ctx, admin, "proj-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(HaveLen(1))
		})
	})
})
