package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RoleAuthorization", func() {
	var (
		rbac *RoleAuthorization
		next http.Handler
	)

	ginkgo.BeforeEach(func() {
		rbac = NewRoleAuthorization(slog.Default())
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	serveAnonymous := func(mw func(http.Handler) http.Handler) int {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)
		return rec.Code
	}

	serve := func(mw func(http.Handler) http.Handler, role Role) int {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		u := &User{ID: "u1", Role: role, Permissions: ExpandPermissions(role)}
		req = req.WithContext(ContextWithUser(req.Context(), u))
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)
		return rec.Code
	}

	ginkgo.Describe("RequireViewProjects", func() {
		ginkgo.It("admits admin, staff and client", func() {
			gomega.Expect(serve(rbac.RequireViewProjects(), RoleAdmin)).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireViewProjects(), RoleStaff)).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireViewProjects(), RoleClient)).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("rejects a user with no company", func() {
			gomega.Expect(serve(rbac.RequireViewProjects(), RoleNone)).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("rejects a request with no session user", func() {
			gomega.Expect(serveAnonymous(rbac.RequireViewProjects())).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RequireDeleteProjects", func() {
		ginkgo.It("admits only admin", func() {
			gomega.Expect(serve(rbac.RequireDeleteProjects(), RoleAdmin)).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireDeleteProjects(), RoleStaff)).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(serve(rbac.RequireDeleteProjects(), RoleClient)).To(gomega.Equal(http.StatusForbidden))
		})
	})
})
