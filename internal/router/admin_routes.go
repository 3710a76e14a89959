package router

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/handler"    // admin seat and session handlers
	"github.com/iliyamo/school-seat-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterAdmin wires the administrative endpoints.  Every route in
// this group requires a valid access token with the ADMIN role; the
// acting school always comes from the token, so an admin can only
// manage their own school's sessions and layouts.
func RegisterAdmin(e *echo.Echo, as *handler.AdminSeatHandler, ses *handler.SessionHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Lay out a class's seats for a session.  One-shot: a repeat call
	// answers 409 and leaves the existing layout untouched.
	g.POST("/seats/initialize", as.InitializeSeats)

	// Session management.  Creating or activating a session swaps the
	// school's single active flag inside one transaction.
	g.POST("/sessions", ses.CreateSession)
	g.POST("/sessions/:id/activate", ses.ActivateSession)
	g.GET("/sessions", ses.ListSessions)
}
