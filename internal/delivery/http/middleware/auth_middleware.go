package middleware

import (
	"strings"

	"surplus/internal/delivery/http/response"
	"surplus/internal/domain/entity"
	"surplus/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// keySession is the echo.Context key the authenticated session is stored under.
const keySession = "session"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the session token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		// Set the session on the context for handlers to use
		c.Set(keySession, &entity.Session{
			AccountID: claims.AccountID,
			Username:  claims.Username,
			Role:      entity.RoleFromString(claims.Role),
		})

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := GetSession(c)
			if !ok {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: session information missing")
			}

			if session.Role != requiredRole {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetSession extracts the authenticated session set by Authenticate.
func GetSession(c echo.Context) (*entity.Session, bool) {
	session, ok := c.Get(keySession).(*entity.Session)

	return session, ok
}
