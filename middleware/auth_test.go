package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimora/glimora-backend-go/models"
)

func newContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// A request with no Authorization header passes through anonymously; the
// handler sees no identity.
func TestAuthMiddlewareNoHeader(t *testing.T) {
	c, _ := newContext(t, "")

	called := false
	err := AuthMiddleware(func(c echo.Context) error {
		called = true
		assert.Nil(t, CurrentUser(c))
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Basic abc123", "Bearer a b c"} {
		c, rec := newContext(t, header)

		err := AuthMiddleware(func(c echo.Context) error {
			t.Fatalf("handler should not run for header %q", header)
			return nil
		})(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	c, rec := newContext(t, "Bearer not-a-jwt")

	err := AuthMiddleware(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUserRoundTrip(t *testing.T) {
	c, _ := newContext(t, "")
	assert.Nil(t, CurrentUser(c))

	user := &models.AuthUser{Email: "amara@example.com", Role: models.RoleUser}
	SetCurrentUser(c, user)
	assert.Equal(t, user, CurrentUser(c))
}
