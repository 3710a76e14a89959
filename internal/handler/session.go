package handler

import (
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // parsing session date bounds

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
	"github.com/iliyamo/school-seat-booking/internal/repository"
)

// SessionHandler manages school sessions.  Creating or activating a
// session deactivates all the school's other sessions inside one
// transaction so exactly one session stays active per school at any
// time.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

// NewSessionHandler constructs a SessionHandler and panics on a nil
// repository.
func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	if sessions == nil {
		panic("nil repository passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions}
}

type createSessionReq struct {
	Name     string `json:"name"`
	StartsOn string `json:"starts_on"` // YYYY-MM-DD
	EndsOn   string `json:"ends_on"`   // YYYY-MM-DD
}

// CreateSession handles POST /v1/admin/sessions.  The new session
// becomes the school's active one; all previous sessions are
// deactivated in the same transaction.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	schoolID, err := getSchoolID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	starts, err := time.Parse("2006-01-02", req.StartsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_on"})
	}
	ends, err := time.Parse("2006-01-02", req.EndsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_on"})
	}
	if !ends.After(starts) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must be after starts_on"})
	}

	ctx := c.Request().Context()
	tx, err := h.Sessions.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Sessions.DeactivateAllTx(ctx, tx, schoolID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate previous sessions"})
	}
	s := &model.Session{
		SchoolID: schoolID,
		Name:     req.Name,
		StartsOn: starts,
		EndsOn:   ends,
		IsActive: true,
	}
	if err := h.Sessions.CreateTx(ctx, tx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"item": s})
}

// ActivateSession handles POST /v1/admin/sessions/:id/activate.  It
// verifies the session belongs to the caller's school, then swaps the
// active flag over in one transaction.
func (h *SessionHandler) ActivateSession(c echo.Context) error {
	schoolID, err := getSchoolID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Sessions.GetByIDAndSchool(ctx, sessionID, schoolID); err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}

	tx, err := h.Sessions.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Sessions.DeactivateAllTx(ctx, tx, schoolID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate previous sessions"})
	}
	if err := h.Sessions.ActivateTx(ctx, tx, sessionID, schoolID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate session"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	s, err := h.Sessions.GetByIDAndSchool(ctx, sessionID, schoolID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reload session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}

// ListSessions handles GET /v1/admin/sessions and returns all of the
// school's sessions, newest first.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	schoolID, err := getSchoolID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Sessions.ListBySchool(c.Request().Context(), schoolID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(items),
		"items": items,
	})
}

// GetActiveSession handles GET /v1/sessions/active.  Students use it
// to discover which session their seat view should target.
func (h *SessionHandler) GetActiveSession(c echo.Context) error {
	schoolID, err := getSchoolID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	s, err := h.Sessions.GetActiveBySchool(c.Request().Context(), schoolID)
	if err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": s})
}
