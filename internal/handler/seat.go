package handler

import (
	"context"  // context with cancellation for the async event publish
	"errors"   // errors.Is comparisons against booking sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // timestamp formatting for events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
	"github.com/iliyamo/school-seat-booking/internal/queue"
	queue_publisher "github.com/iliyamo/school-seat-booking/internal/service"
)

// SeatHandler exposes the student-facing seat endpoints: listing the
// caller's partition, booking and releasing.  All methods assume JWT
// authentication and the STUDENT role have been enforced by
// middleware; the student id always comes from the token, never the
// body, so one student cannot book on behalf of another.
type SeatHandler struct {
	Engine *booking.Engine
}

// NewSeatHandler constructs a SeatHandler and panics on a nil engine.
func NewSeatHandler(engine *booking.Engine) *SeatHandler {
	if engine == nil {
		panic("nil engine passed to NewSeatHandler")
	}
	return &SeatHandler{Engine: engine}
}

// ListSeats handles GET /v1/classes/:class_id/sessions/:session_id/seats.
// It returns the seats of the caller's allowed side ordered by seat
// number, together with the resolved side and the caller's gender so
// the client can render the correct half of the room.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	classID, err := strconv.ParseUint(c.Param("class_id"), 10, 64)
	if err != nil || classID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class_id"})
	}
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session_id"})
	}

	list, err := h.Engine.ListSeats(c.Request().Context(), classID, sessionID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, booking.ErrStudentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"class_id":   classID,
		"session_id": sessionID,
		"side":       list.Side,
		"gender":     list.Gender,
		"count":      len(list.Seats),
		"items":      list.Seats,
	})
}

// BookSeat handles POST /v1/seats/book.  The body carries only the
// seat id; eligibility, the implicit release of any previously held
// seat and the race-guarded claim all happen in the engine.  A lost
// race maps to 409 so clients know to pick a different seat rather
// than retry the same one.
func (h *SeatHandler) BookSeat(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SeatID uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}

	seat, err := h.Engine.Claim(c.Request().Context(), body.SeatID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, booking.ErrStudentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		case errors.Is(err, booking.ErrWrongSide):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "seat is on the wrong side"})
		case errors.Is(err, booking.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seat"})
	}

	// Fire the seat.booked event off the request path; a broker outage
	// must not fail a claim that is already committed.
	go publishSeatBooked(seat, studentID)

	return c.JSON(http.StatusOK, echo.Map{"item": seat})
}

// ReleaseSeat handles POST /v1/seats/release.  Only the current owner
// may vacate a seat; anything else reports 404 without touching the
// seat's state.
func (h *SeatHandler) ReleaseSeat(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SeatID uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}

	seat, err := h.Engine.Release(c.Request().Context(), body.SeatID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, booking.ErrNotOwner):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not booked by this student"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seat"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": seat})
}

// publishSeatBooked builds and publishes the seat.booked event with a
// bounded context so a slow broker cannot leak goroutines.
func publishSeatBooked(seat *model.Seat, studentID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bookedAt := ""
	if seat.BookedAt != nil {
		bookedAt = seat.BookedAt.UTC().Format(time.RFC3339)
	}
	_ = queue_publisher.PublishSeatBooked(ctx, queue.SeatBookedEvent{
		SeatID:     seat.ID,
		SeatNumber: seat.SeatNumber,
		Side:       string(seat.Side),
		ClassID:    seat.ClassID,
		SessionID:  seat.SessionID,
		SchoolID:   seat.SchoolID,
		StudentID:  studentID,
		BookedAt:   bookedAt,
	})
}
