package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func allCapabilities(p Permissions) []bool {
	return []bool{
		p.CanManageUsers,
		p.CanManageProjects,
		p.CanCreateProjects,
		p.CanDeleteProjects,
		p.CanViewAllProjects,
		p.CanViewProjectDetails,
		p.CanManageCheckIns,
		p.CanCreateCheckIns,
		p.CanManageFeedback,
		p.CanCreateFeedback,
		p.CanViewFeedback,
		p.CanManageCompany,
		p.CanManageDailyReports,
		p.CanCreateDailyReports,
		p.CanViewDailyReports,
		p.CanApproveDailyReports,
	}
}

var _ = ginkgo.Describe("ExpandPermissions", func() {
	ginkgo.Context("for admin", func() {
		ginkgo.It("should grant every capability", func() {
			perms := ExpandPermissions(RoleAdmin)
			for _, granted := range allCapabilities(perms) {
				gomega.Expect(granted).To(gomega.BeTrue())
			}
		})
	})

	ginkgo.Context("for staff", func() {
		ginkgo.It("should grant project and report management but not admin capabilities", func() {
			perms := ExpandPermissions(RoleStaff)

			gomega.Expect(perms.CanManageProjects).To(gomega.BeTrue())
			gomega.Expect(perms.CanCreateProjects).To(gomega.BeTrue())
			gomega.Expect(perms.CanManageCheckIns).To(gomega.BeTrue())
			gomega.Expect(perms.CanManageDailyReports).To(gomega.BeTrue())

			gomega.Expect(perms.CanManageUsers).To(gomega.BeFalse())
			gomega.Expect(perms.CanDeleteProjects).To(gomega.BeFalse())
			gomega.Expect(perms.CanManageCompany).To(gomega.BeFalse())
			gomega.Expect(perms.CanApproveDailyReports).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("for client", func() {
		ginkgo.It("should be view-only with feedback creation", func() {
			perms := ExpandPermissions(RoleClient)

			gomega.Expect(perms.CanViewProjectDetails).To(gomega.BeTrue())
			gomega.Expect(perms.CanCreateFeedback).To(gomega.BeTrue())
			gomega.Expect(perms.CanViewFeedback).To(gomega.BeTrue())
			gomega.Expect(perms.CanViewDailyReports).To(gomega.BeTrue())

			gomega.Expect(perms.CanManageUsers).To(gomega.BeFalse())
			gomega.Expect(perms.CanManageProjects).To(gomega.BeFalse())
			gomega.Expect(perms.CanCreateProjects).To(gomega.BeFalse())
			gomega.Expect(perms.CanDeleteProjects).To(gomega.BeFalse())
			gomega.Expect(perms.CanManageCompany).To(gomega.BeFalse())
			gomega.Expect(perms.CanViewAllProjects).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("for unrecognized roles", func() {
		ginkgo.It("should grant nothing", func() {
			for _, role := range []Role{RoleNone, Role("bogus-role"), Role("ADMIN"), Role("owner")} {
				perms := ExpandPermissions(role)
				for _, granted := range allCapabilities(perms) {
					gomega.Expect(granted).To(gomega.BeFalse())
				}
			}
		})
	})
})

var _ = ginkgo.Describe("ParseRole", func() {
	ginkgo.It("should accept the three known roles", func() {
		gomega.Expect(ParseRole("admin")).To(gomega.Equal(RoleAdmin))
		gomega.Expect(ParseRole("staff")).To(gomega.Equal(RoleStaff))
		gomega.Expect(ParseRole("client")).To(gomega.Equal(RoleClient))
	})

	ginkgo.It("should map anything else to RoleNone", func() {
		gomega.Expect(ParseRole("")).To(gomega.Equal(RoleNone))
		gomega.Expect(ParseRole("Admin")).To(gomega.Equal(RoleNone))
		gomega.Expect(ParseRole("manager")).To(gomega.Equal(RoleNone))
	})
})
