package auth

import (
	"log/slog"
	"net/http"
)

// RoleAuthorization gates chi route groups on the capability set expanded
// from the session user's resolved role.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

// Check wraps next and rejects requests whose session user lacks the named
// capability.
func (ra *RoleAuthorization) Check(next http.HandlerFunc, capability string, allowed func(Permissions) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			ra.logger.Warn("authorization check failed: user not found in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !allowed(user.Permissions) {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", user.ID,
				"role", user.Role,
				"required_capability", capability)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RoleAuthorization) require(capability string, allowed func(Permissions) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, capability, allowed)
	}
}

func (ra *RoleAuthorization) RequireManageUsers() func(http.Handler) http.Handler {
	return ra.require("manage_users", func(p Permissions) bool { return p.CanManageUsers })
}

func (ra *RoleAuthorization) RequireManageCompany() func(http.Handler) http.Handler {
	return ra.require("manage_company", func(p Permissions) bool { return p.CanManageCompany })
}

func (ra *RoleAuthorization) RequireManageProjects() func(http.Handler) http.Handler {
	return ra.require("manage_projects", func(p Permissions) bool { return p.CanManageProjects })
}

func (ra *RoleAuthorization) RequireCreateProjects() func(http.Handler) http.Handler {
	return ra.require("create_projects", func(p Permissions) bool { return p.CanCreateProjects })
}

func (ra *RoleAuthorization) RequireDeleteProjects() func(http.Handler) http.Handler {
	return ra.require("delete_projects", func(p Permissions) bool { return p.CanDeleteProjects })
}

func (ra *RoleAuthorization) RequireViewProjects() func(http.Handler) http.Handler {
	return ra.require("view_project_details", func(p Permissions) bool { return p.CanViewProjectDetails })
}

func (ra *RoleAuthorization) RequireApproveDailyReports() func(http.Handler) http.Handler {
	return ra.require("approve_daily_reports", func(p Permissions) bool { return p.CanApproveDailyReports })
}
