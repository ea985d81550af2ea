package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/wirabuild/construction-management/internal/auth"
	"github.com/wirabuild/construction-management/internal/company"
	"github.com/wirabuild/construction-management/internal/income"
	"github.com/wirabuild/construction-management/internal/notification"
	"github.com/wirabuild/construction-management/internal/photo"
	"github.com/wirabuild/construction-management/internal/project"
	"github.com/wirabuild/construction-management/internal/reimbursement"
	"github.com/wirabuild/construction-management/internal/task"
	"github.com/wirabuild/construction-management/internal/transport/middleware"
	"github.com/wirabuild/construction-management/internal/transport/swagger"
	"github.com/wirabuild/construction-management/internal/user"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth          *auth.Handler
	User          *user.Handler
	Company       *company.Handler
	Project       *project.Handler
	Task          *task.Handler
	Reimbursement *reimbursement.Handler
	Income        *income.Handler
	Photo         *photo.Handler
	Notification  *notification.Handler
}

// RegisterAllRoutes wires the full /api/v1 surface onto the router.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRoleAuthorization(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Patch("/users/me", h.User.UpdateCurrentUser)
			pr.Post("/users/me/device-tokens", h.Notification.RegisterDeviceToken)

			pr.Route("/companies", func(cr chi.Router) {
				cr.Post("/", h.Company.CreateCompany)
				cr.Get("/{id}", h.Company.GetCompany)
				cr.Post("/{id}/join", h.Company.JoinCompany)
				cr.Post("/{id}/leave", h.Company.LeaveCompany)
				cr.Get("/{id}/members", h.Company.ListMembers)

				cr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageCompany())
					mr.Patch("/{id}", h.Company.UpdateCompany)
				})

				cr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageUsers())
					mr.Patch("/{id}/members/{userID}/role", h.Company.ChangeMemberRole)
				})
			})

			pr.Route("/projects", func(pjr chi.Router) {
				// Every role that can touch a project can view one; this
				// fences out users with no company at all.
				pjr.Use(rbac.RequireViewProjects())

				pjr.Get("/", h.Project.ListProjects)
				pjr.Get("/{id}", h.Project.GetProject)

				pjr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireCreateProjects())
					mr.Post("/", h.Project.CreateProject)
				})

				pjr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageProjects())
					mr.Patch("/{id}", h.Project.UpdateProject)
					mr.Post("/{id}/recompute", h.Project.RecomputeActuals)
					mr.Post("/{id}/tasks", h.Task.CreateTask)
				})

				pjr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireDeleteProjects())
					mr.Delete("/{id}", h.Project.DeleteProject)
				})

				pjr.Get("/{id}/tasks", h.Task.ListTasks)

				pjr.Post("/{id}/reimbursements", h.Reimbursement.SubmitReimbursement)
				pjr.Get("/{id}/reimbursements", h.Reimbursement.ListReimbursements)

				pjr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageCompany())
					mr.Post("/{id}/incomes", h.Income.CreateIncome)
				})
				pjr.Get("/{id}/incomes", h.Income.ListIncomes)

				pjr.Post("/{id}/photos", h.Photo.UploadPhoto)
				pjr.Get("/{id}/photos", h.Photo.ListPhotos)
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireManageProjects())
				mr.Post("/tasks/bulk-assign", h.Task.BulkAssign)
				mr.Patch("/tasks/{id}/status", h.Task.UpdateTaskStatus)
				mr.Delete("/tasks/{id}", h.Task.DeleteTask)
			})

			pr.Get("/assignments", h.Task.ListMyAssignments)
			pr.Patch("/assignments/{id}/complete", h.Task.CompleteAssignment)

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireApproveDailyReports())
				mr.Patch("/reimbursements/{id}/approve", h.Reimbursement.ApproveReimbursement)
				mr.Patch("/reimbursements/{id}/reject", h.Reimbursement.RejectReimbursement)
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireManageCompany())
				mr.Delete("/incomes/{id}", h.Income.DeleteIncome)
			})

			pr.Delete("/photos/{id}", h.Photo.DeletePhoto)
		})
	})
}
