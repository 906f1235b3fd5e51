package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// AdminID returns the authenticated admin id, or 0 when the request carries
// no valid token.
func AdminID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxAdminID).(uint64); ok {
		return v
	}
	return 0
}

// Role returns the authenticated role, or "" for anonymous requests.
func Role(c echo.Context) string {
	r, _ := c.Get(CtxRole).(string)
	return r
}

// identity is the rate-limit key part of the caller: the admin id when
// authenticated, "anon" otherwise.
func identity(c echo.Context) string {
	if id := AdminID(c); id != 0 {
		return "admin" + strconv.FormatUint(id, 10)
	}
	return "anon"
}
