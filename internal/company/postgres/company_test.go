package postgres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wirabuild/construction-management/internal/auth"
	"github.com/wirabuild/construction-management/internal/company"
	companyDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/company"
)

func TestCompanyRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CompanyRepository Suite")
}

type SQLiteUser struct {
	ID        string    `gorm:"primaryKey"`
	Email     string    `gorm:"column:email"`
	Name      string    `gorm:"column:name"`
	CompanyID *string   `gorm:"column:company_id"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("CompanyRepository", func() {
	var (
		db   *gorm.DB
		repo company.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &companyDatamodel.Company{}, &companyDatamodel.CompanyMembership{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewCompanyRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("UpsertMembership", func() {
		It("should never produce a second row for the same pair", func() {
			Expect(repo.UpsertMembership(ctx, "u1", "c1", "staff")).To(Succeed())
			Expect(repo.UpsertMembership(ctx, "u1", "c1", "admin")).To(Succeed())

			var count int64
			err := db.Model(&companyDatamodel.CompanyMembership{}).
				Where("user_id = ? AND company_id = ?", "u1", "c1").
				Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			m, err := repo.GetMembership(ctx, "u1", "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Role).To(Equal("admin"))
		})

		It("should keep memberships for different companies apart", func() {
			Expect(repo.UpsertMembership(ctx, "u1", "c1", "staff")).To(Succeed())
			Expect(repo.UpsertMembership(ctx, "u1", "c2", "client")).To(Succeed())

			var count int64
			err := db.Model(&companyDatamodel.CompanyMembership{}).Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("GetMembership", func() {
		It("should return nil for absent rows", func() {
			m, err := repo.GetMembership(ctx, "nobody", "nowhere")
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(BeNil())
		})
	})

	Describe("resolver on a real store", func() {
		It("should create exactly one admin row for the owner across repeated resolutions", func() {
			Expect(db.Create(&companyDatamodel.Company{
				ID: "c1", Name: "Wira Karya", OwnerUserID: "u1", MemberCount: 1,
			}).Error).To(Succeed())

			resolver := auth.NewMembershipResolver(repo, slog.Default())

			Expect(resolver.ResolveRole(ctx, "u1", "c1")).To(Equal(auth.RoleAdmin))
			Expect(resolver.ResolveRole(ctx, "u1", "c1")).To(Equal(auth.RoleAdmin))

			var count int64
			err := db.Model(&companyDatamodel.CompanyMembership{}).
				Where("user_id = ? AND company_id = ?", "u1", "c1").
				Count(&count).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			m, err := repo.GetMembership(ctx, "u1", "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Role).To(Equal("admin"))
		})

		It("should clear the stale company pointer when the company is gone", func() {
			stale := "ghost-company"
			Expect(db.Create(&SQLiteUser{ID: "u1", Email: "u1@example.com", CompanyID: &stale}).Error).To(Succeed())

			resolver := auth.NewMembershipResolver(repo, slog.Default())
			Expect(resolver.ResolveRole(ctx, "u1", stale)).To(Equal(auth.RoleNone))

			var u SQLiteUser
			Expect(db.Where("id = ?", "u1").First(&u).Error).To(Succeed())
			Expect(u.CompanyID).To(BeNil())
		})
	})

	Describe("ClearUserCompany", func() {
		It("should null the pointer", func() {
			cid := "c1"
			Expect(db.Create(&SQLiteUser{ID: "u1", CompanyID: &cid}).Error).To(Succeed())

			Expect(repo.ClearUserCompany(ctx, "u1")).To(Succeed())

			var u SQLiteUser
			Expect(db.Where("id = ?", "u1").First(&u).Error).To(Succeed())
			Expect(u.CompanyID).To(BeNil())
		})
	})
})
