package handler

import (
	"errors"   // errors.Is comparisons against booking sentinels
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/repository"
)

// AdminSeatHandler exposes the administrative seat endpoint: laying
// out a class's seats for a session.  Methods assume JWT auth and the
// ADMIN role were enforced by middleware; the acting school comes from
// the token so an admin can only initialize layouts for their own
// school.
type AdminSeatHandler struct {
	Engine *booking.Engine
}

// NewAdminSeatHandler constructs an AdminSeatHandler and panics on a
// nil engine.
func NewAdminSeatHandler(engine *booking.Engine) *AdminSeatHandler {
	if engine == nil {
		panic("nil engine passed to NewAdminSeatHandler")
	}
	return &AdminSeatHandler{Engine: engine}
}

// InitializeSeats handles POST /v1/admin/seats/initialize.  It creates
// the full layout for a (class, session) pair exactly once; a repeat
// call reports 409 and leaves the existing layout untouched.
func (h *AdminSeatHandler) InitializeSeats(c echo.Context) error {
	schoolID, err := getSchoolID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ClassID   uint64 `json:"class_id"`
		SessionID uint64 `json:"session_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ClassID == 0 || body.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "class_id and session_id are required"})
	}

	seats, err := h.Engine.Initialize(c.Request().Context(), body.ClassID, body.SessionID, schoolID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, booking.ErrAlreadyInitialized), errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats already initialized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to initialize seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"class_id":   body.ClassID,
		"session_id": body.SessionID,
		"count":      len(seats),
		"items":      seats,
	})
}
