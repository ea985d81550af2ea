package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// Stub service wired through the ServiceAPI seam the handler consumes.
type stubAuthService struct {
	loginTokens   AuthTokens
	loginErr      error
	claims        *Claims
	validateErr   error
	sessionUser   *User
	currentErr    error
	currentUserID string
}

func (s *stubAuthService) Register(dto RegisterDTO) (AuthTokens, error) {
	return s.loginTokens, s.loginErr
}

func (s *stubAuthService) Authenticate(dto LoginDTO) (AuthTokens, error) {
	return s.loginTokens, s.loginErr
}

func (s *stubAuthService) RefreshTokens(refreshToken string) (AuthTokens, error) {
	return s.loginTokens, s.loginErr
}

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.claims, s.validateErr
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*User, error) {
	s.currentUserID = userID
	return s.sessionUser, s.currentErr
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		stub    *stubAuthService
		handler *Handler
	)

	ginkgo.BeforeEach(func() {
		stub = &stubAuthService{
			loginTokens: AuthTokens{AccessToken: "access", RefreshToken: "refresh"},
			claims:      &Claims{UserID: "u1"},
			sessionUser: &User{ID: "u1", Role: RoleAdmin, Permissions: ExpandPermissions(RoleAdmin)},
		}
		handler = NewHandler(stub)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("returns the token pair on success", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"wira@mail.com","password":"password"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"access_token":"access"`))
		})

		ginkgo.It("maps invalid credentials to 401", func() {
			stub.loginErr = ErrInvalidCredentials
			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"wira@mail.com","password":"wrong"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var next http.Handler
		var capturedUser *User

		ginkgo.BeforeEach(func() {
			capturedUser = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedUser, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})

		ginkgo.It("rejects requests without a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(capturedUser).To(gomega.BeNil())
		})

		ginkgo.It("loads the session user into context", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(stub.currentUserID).To(gomega.Equal("u1"))
			gomega.Expect(capturedUser).NotTo(gomega.BeNil())
			gomega.Expect(capturedUser.Role).To(gomega.Equal(RoleAdmin))
		})

		ginkgo.It("rejects a token that fails validation", func() {
			stub.validateErr = ErrInvalidToken
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer bad-token")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
