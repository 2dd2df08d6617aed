package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestIssueSetsSessionCookie(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	c, w := testContext(t)
	sessions := NewSessions(false)
	require.NoError(t, sessions.Issue(c, "owner@example.com"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, SessionCookie, cookie.Name)
	require.NotEmpty(t, cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, SessionMaxAge, cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	email, ok := VerifyToken(cookie.Value)
	require.True(t, ok)
	require.Equal(t, "owner@example.com", email)
}

func TestIssueSecureInProduction(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	c, w := testContext(t)
	sessions := NewSessions(true)
	require.NoError(t, sessions.Issue(c, "owner@example.com"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
}

func TestIssueFailsWithoutSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	c, _ := testContext(t)
	sessions := NewSessions(false)
	require.ErrorIs(t, sessions.Issue(c, "owner@example.com"), ErrSecretNotConfigured)
}

func TestReadRoundTrip(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	token, err := SignIdentity("member@example.com")
	require.NoError(t, err)

	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	sessions := NewSessions(false)
	email, ok := sessions.Read(c)
	require.True(t, ok)
	require.Equal(t, "member@example.com", email)
}

func TestReadFailsClosed(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	sessions := NewSessions(false)

	// No cookie at all.
	c, _ := testContext(t)
	_, ok := sessions.Read(c)
	require.False(t, ok)

	// Garbage cookie value.
	c, _ = testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	_, ok = sessions.Read(c)
	require.False(t, ok)

	// Valid token but the secret has since changed.
	token, err := SignIdentity("member@example.com")
	require.NoError(t, err)
	t.Setenv("AUTH_SECRET", "another-secret-of-32-characters!")
	c, _ = testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	_, ok = sessions.Read(c)
	require.False(t, ok)
}

func TestRevokeClearsCookie(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	// Revoke must succeed even with no secret and no existing session.
	c, w := testContext(t)
	sessions := NewSessions(false)
	sessions.Revoke(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
