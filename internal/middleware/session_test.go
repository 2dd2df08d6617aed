package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/pkg/response"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type staticStore struct {
	profiles map[string]*models.Profile
}

func (s *staticStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	return s.profiles[email], nil
}

func newTestRouter(store *staticStore) (*gin.Engine, *auth.Sessions) {
	gin.SetMode(gin.TestMode)
	sessions := auth.NewSessions(false)
	resolver := auth.NewResolver(store)

	router := gin.New()
	protected := router.Group("")
	protected.Use(Session(sessions, resolver))
	protected.GET("/whoami", func(c *gin.Context) {
		response.OK(c, gin.H{
			"email": auth.SessionEmail(c),
			"owner": auth.OwnerEmail(c),
			"role":  auth.UserRole(c),
		})
	})
	protected.GET("/admin-only", Require(models.Role.CanAccessCompanyUsers), func(c *gin.Context) {
		response.OK(c, gin.H{"ok": true})
	})
	return router, sessions
}

func ownerStore(email string) *staticStore {
	return &staticStore{profiles: map[string]*models.Profile{
		email: {Email: email},
	}}
}

func sessionCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	token, err := auth.SignIdentity(email)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func TestSessionMiddlewareRejectsMissingCookie(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	router, _ := newTestRouter(ownerStore("owner@x.com"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareRejectsBadToken(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	router, _ := newTestRouter(ownerStore("owner@x.com"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "bogus.token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareSetsIdentity(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	router, _ := newTestRouter(ownerStore("owner@x.com"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie(t, "owner@x.com"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"email":"owner@x.com"`)
	require.Contains(t, w.Body.String(), `"owner":"owner@x.com"`)
	require.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestSessionMiddlewareRevokesUnknownAccount(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	router, _ := newTestRouter(&staticStore{profiles: map[string]*models.Profile{}})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie(t, "deleted@x.com"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
}

func TestRequireCapability(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	// A member listed as staff in the owner's company.
	ownerRef := "owner@x.com"
	store := &staticStore{profiles: map[string]*models.Profile{
		"owner@x.com": {
			Email: "owner@x.com",
			Company: models.Company{Users: []models.CompanyUser{
				{Email: "bob@x.com", Role: models.RoleStaff},
			}},
		},
		"bob@x.com": {Email: "bob@x.com", CompanyOwnerEmail: &ownerRef},
	}}
	router, _ := newTestRouter(store)

	// Owner (admin) passes.
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(sessionCookie(t, "owner@x.com"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Staff member is forbidden.
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(sessionCookie(t, "bob@x.com"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
