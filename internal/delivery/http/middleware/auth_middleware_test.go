package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"surplus/config"
	"surplus/internal/domain/entity"
	"surplus/internal/infra/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc)
}

func issueToken(t *testing.T, role string) string {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-secret"

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenSvc.GenerateToken("acc-1", "Alex", role)
	require.NoError(t, err)

	return token
}

func invoke(t *testing.T, handler echo.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))

	return rec
}

func TestAuthMiddleware_Authenticate_SetsSession(t *testing.T) {
	m := newAuthMiddleware(t)

	var captured *entity.Session
	handler := m.Authenticate(func(c echo.Context) error {
		session, ok := GetSession(c)
		require.True(t, ok)
		captured = session

		return c.NoContent(http.StatusOK)
	})

	rec := invoke(t, handler, "Bearer "+issueToken(t, "admin"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "acc-1", captured.AccountID)
	assert.Equal(t, entity.RoleAdmin, captured.Role)
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	m := newAuthMiddleware(t)
	handler := m.Authenticate(func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})

	tests := []struct {
		name       string
		authHeader string
	}{
		{"Missing header", ""},
		{"Not a bearer token", "Basic abc"},
		{"Garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invoke(t, handler, tt.authHeader)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	m := newAuthMiddleware(t)

	handler := m.Authenticate(m.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	rec := invoke(t, handler, "Bearer "+issueToken(t, "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = invoke(t, handler, "Bearer "+issueToken(t, "customer"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware_RequireRole_WithoutAuthenticate(t *testing.T) {
	m := newAuthMiddleware(t)

	handler := m.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := invoke(t, handler, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
