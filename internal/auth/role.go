package auth

// Role is a user's role within a company. The empty RoleNone sentinel marks
// users without a (valid) company; it expands to zero capabilities.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
	RoleNone   Role = ""
)

// ParseRole returns the role matching s, or RoleNone for anything unrecognized.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleClient:
		return Role(s)
	}
	return RoleNone
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleClient
}

// Permissions is the capability set derived from a role. It is a pure value,
// never persisted, recomputed on demand.
type Permissions struct {
	CanManageUsers         bool `json:"can_manage_users"`
	CanManageProjects      bool `json:"can_manage_projects"`
	CanCreateProjects      bool `json:"can_create_projects"`
	CanDeleteProjects      bool `json:"can_delete_projects"`
	CanViewAllProjects     bool `json:"can_view_all_projects"`
	CanViewProjectDetails  bool `json:"can_view_project_details"`
	CanManageCheckIns      bool `json:"can_manage_checkins"`
	CanCreateCheckIns      bool `json:"can_create_checkins"`
	CanManageFeedback      bool `json:"can_manage_feedback"`
	CanCreateFeedback      bool `json:"can_create_feedback"`
	CanViewFeedback        bool `json:"can_view_feedback"`
	CanManageCompany       bool `json:"can_manage_company"`
	CanManageDailyReports  bool `json:"can_manage_daily_reports"`
	CanCreateDailyReports  bool `json:"can_create_daily_reports"`
	CanViewDailyReports    bool `json:"can_view_daily_reports"`
	CanApproveDailyReports bool `json:"can_approve_daily_reports"`
}

// ExpandPermissions maps a role to its capability set. Total over all inputs:
// any role outside the three known ones (including RoleNone and arbitrary
// strings from corrupt rows) gets the all-false zero value.
func ExpandPermissions(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			CanManageUsers:         true,
			CanManageProjects:      true,
			CanCreateProjects:      true,
			CanDeleteProjects:      true,
			CanViewAllProjects:     true,
			CanViewProjectDetails:  true,
			CanManageCheckIns:      true,
			CanCreateCheckIns:      true,
			CanManageFeedback:      true,
			CanCreateFeedback:      true,
			CanViewFeedback:        true,
			CanManageCompany:       true,
			CanManageDailyReports:  true,
			CanCreateDailyReports:  true,
			CanViewDailyReports:    true,
			CanApproveDailyReports: true,
		}
	case RoleStaff:
		return Permissions{
			CanManageProjects:     true,
			CanCreateProjects:     true,
			CanViewAllProjects:    true,
			CanViewProjectDetails: true,
			CanManageCheckIns:     true,
			CanCreateCheckIns:     true,
			CanManageFeedback:     true,
			CanCreateFeedback:     true,
			CanViewFeedback:       true,
			CanManageDailyReports: true,
			CanCreateDailyReports: true,
			CanViewDailyReports:   true,
		}
	case RoleClient:
		return Permissions{
			CanViewProjectDetails: true,
			CanCreateFeedback:     true,
			CanViewFeedback:       true,
			CanViewDailyReports:   true,
		}
	}
	return Permissions{}
}
