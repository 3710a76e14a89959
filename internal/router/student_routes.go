package router

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/handler"    // seat and session handlers
	"github.com/iliyamo/school-seat-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterStudent wires the student-facing seat endpoints.  Every route
// in this group requires a valid access token with the STUDENT role;
// the student id used by the handlers always comes from the token.
// cacheSeats may be nil when Redis is unavailable, in which case the
// seat listing is served uncached.
func RegisterStudent(e *echo.Echo, s *handler.SeatHandler, ses *handler.SessionHandler, jwtSecret string, cacheSeats echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STUDENT"))

	// Seat listing is the hottest endpoint (students poll it while
	// choosing); a short-lived Redis cache absorbs the bursts.
	if cacheSeats != nil {
		g.GET("/classes/:class_id/sessions/:session_id/seats", s.ListSeats, cacheSeats)
	} else {
		g.GET("/classes/:class_id/sessions/:session_id/seats", s.ListSeats)
	}

	// Book a seat.  The body carries only the seat id; any previously
	// held seat in the same class/session is vacated as part of the claim.
	g.POST("/seats/book", s.BookSeat)
	// Release a seat the caller currently owns.
	g.POST("/seats/release", s.ReleaseSeat)
	// Discover the school's active session so the client knows which
	// seat view to render.
	g.GET("/sessions/active", ses.GetActiveSession)
}
