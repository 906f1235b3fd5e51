package middleware // middleware provides the request processing shared by the dashboard routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxAdminID = "admin_id" // uint64
	CtxRole    = "role"     // string
)

// JWTAuth validates the Bearer access token and stores the admin id and
// role in the request context under CtxAdminID and CtxRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, _ := claims.AdminID()
			c.Set(CtxAdminID, id)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// BearerToken extracts the token of an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}
