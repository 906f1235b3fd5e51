package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/handler"
	"github.com/iliyamo/dance-studio-admin/internal/middleware"
	"github.com/iliyamo/dance-studio-admin/internal/model"
)

// RegisterRoutes registers the routes that never require authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// protected /v1/me.  limit is applied to the login and refresh calls.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOwner, model.RoleStaff))
}

// StudioOptions carries the middleware wrapped around the studio routes.
// Nil entries are skipped.
type StudioOptions struct {
	// JWTSecret enables bearer authentication when non-empty.  Deleting an
	// instructor then requires the OWNER role.
	JWTSecret  string
	RateLimit  echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc // derived read-only views
	Invalidate echo.MiddlewareFunc // every write
}

// RegisterStudio registers the students, instructors, classes, schedule and
// payments endpoints under /v1.
func RegisterStudio(e *echo.Echo, h *handler.StudioHandler, opt StudioOptions) {
	var mws []echo.MiddlewareFunc
	ownerOnly := []echo.MiddlewareFunc{}
	if opt.JWTSecret != "" {
		mws = append(mws, middleware.JWTAuth(opt.JWTSecret), middleware.RequireRole(model.RoleOwner, model.RoleStaff))
		ownerOnly = append(ownerOnly, middleware.RequireRole(model.RoleOwner))
	}
	for _, m := range []echo.MiddlewareFunc{opt.RateLimit, opt.Invalidate} {
		if m != nil {
			mws = append(mws, m)
		}
	}
	var cached []echo.MiddlewareFunc
	if opt.Cache != nil {
		cached = append(cached, opt.Cache)
	}

	v1 := e.Group("/v1", mws...)

	v1.GET("/students", h.ListStudents)
	v1.POST("/students", h.CreateStudent)
	v1.GET("/students/:id", h.GetStudent)
	v1.PUT("/students/:id", h.UpdateStudent)

	v1.GET("/instructors", h.ListInstructors)
	v1.POST("/instructors", h.CreateInstructor)
	v1.GET("/instructors/:id", h.GetInstructor)
	v1.PUT("/instructors/:id", h.UpdateInstructor)
	v1.DELETE("/instructors/:id", h.DeleteInstructor, ownerOnly...)

	v1.GET("/classes", h.ListClasses)
	v1.POST("/classes", h.CreateClass)
	v1.GET("/classes/:id", h.GetClass)
	v1.PUT("/classes/:id", h.UpdateClass)
	v1.GET("/classes/:id/occupancy", h.ClassOccupancy)

	v1.GET("/schedule/board", h.Board, cached...)
	v1.GET("/schedule/layout", h.Layout, cached...)
	v1.GET("/schedule/upcoming", h.Upcoming)
	v1.GET("/schedule.ics", h.Calendar, cached...)

	v1.GET("/payments", h.Ledger, cached...)
	v1.POST("/payments", h.RecordPayment)
	v1.GET("/payments/export.xlsx", h.ExportLedger, cached...)
}
