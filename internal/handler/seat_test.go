package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
)

// The handler tests exercise status-code mapping over a real engine
// wired to small in-memory stores, so no database or broker is needed.

type memSeats struct {
	mu    sync.Mutex
	seats map[uint64]*model.Seat
}

func (m *memSeats) GetSeat(_ context.Context, id uint64) (*model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[id]
	if !ok {
		return nil, booking.ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSeats) ListBySide(_ context.Context, classID, sessionID uint64, side model.Side) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Seat
	for id := uint64(1); id <= uint64(len(m.seats)); id++ {
		s, ok := m.seats[id]
		if ok && s.ClassID == classID && s.SessionID == sessionID && s.Side == side {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSeats) CountSeats(_ context.Context, classID, sessionID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.seats {
		if s.ClassID == classID && s.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *memSeats) CreateBatch(_ context.Context, seats []model.Seat) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Seat, 0, len(seats))
	for _, s := range seats {
		s.ID = uint64(len(m.seats) + 1)
		cp := s
		m.seats[s.ID] = &cp
		out = append(out, s)
	}
	return out, nil
}

func (m *memSeats) ClaimIfFree(_ context.Context, seatID, studentID uint64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok || s.IsTaken || s.StudentID != nil {
		return false, nil
	}
	sid := studentID
	t := at
	s.IsTaken = true
	s.StudentID = &sid
	s.BookedAt = &t
	return true, nil
}

func (m *memSeats) ReleaseOwned(_ context.Context, seatID, studentID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok || s.StudentID == nil || *s.StudentID != studentID {
		return false, nil
	}
	s.IsTaken = false
	s.StudentID = nil
	s.BookedAt = nil
	return true, nil
}

func (m *memSeats) VacateByStudent(_ context.Context, classID, sessionID, studentID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.seats {
		if s.ClassID == classID && s.SessionID == sessionID && s.StudentID != nil && *s.StudentID == studentID {
			s.IsTaken = false
			s.StudentID = nil
			s.BookedAt = nil
			n++
		}
	}
	return n, nil
}

type memStudents struct{ students map[uint64]*model.Student }

func (m *memStudents) GetStudent(_ context.Context, id uint64) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, booking.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

type memSessions struct{ sessions map[uint64]*model.Session }

func (m *memSessions) GetSession(_ context.Context, id uint64) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, booking.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

const (
	classID   = uint64(10)
	sessionID = uint64(20)
	schoolID  = uint64(1)
)

func setupSeatHandler(t *testing.T) (*SeatHandler, *AdminSeatHandler) {
	t.Helper()
	seats := &memSeats{seats: map[uint64]*model.Seat{}}
	students := &memStudents{students: map[uint64]*model.Student{
		1: {ID: 1, Name: "Amira", Gender: "FEMALE", ClassID: classID, SchoolID: schoolID},
		2: {ID: 2, Name: "Basim", Gender: "MALE", ClassID: classID, SchoolID: schoolID},
		3: {ID: 3, Name: "Dalia", Gender: "FEMALE", ClassID: classID, SchoolID: schoolID},
	}}
	sessions := &memSessions{sessions: map[uint64]*model.Session{
		sessionID: {ID: sessionID, SchoolID: schoolID, Name: "2025-2026", IsActive: true},
	}}
	engine := booking.NewEngine(seats, students, sessions, booking.GenderPartition("FEMALE"), booking.DefaultLayout())
	return NewSeatHandler(engine), NewAdminSeatHandler(engine)
}

func newJSONRequest(method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func asStudent(c echo.Context, id uint64) {
	c.Set("user_id", id)
	c.Set("role", "STUDENT")
	c.Set("school_id", schoolID)
}

func asAdmin(c echo.Context) {
	c.Set("user_id", uint64(99))
	c.Set("role", "ADMIN")
	c.Set("school_id", schoolID)
}

func initLayout(t *testing.T, admin *AdminSeatHandler) {
	t.Helper()
	c, rec := newJSONRequest(http.MethodPost, "/v1/admin/seats/initialize", echo.Map{
		"class_id": classID, "session_id": sessionID,
	})
	asAdmin(c)
	require.NoError(t, admin.InitializeSeats(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestInitializeSeatsEndpoint(t *testing.T) {
	_, admin := setupSeatHandler(t)

	c, rec := newJSONRequest(http.MethodPost, "/v1/admin/seats/initialize", echo.Map{
		"class_id": classID, "session_id": sessionID,
	})
	asAdmin(c)
	require.NoError(t, admin.InitializeSeats(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Count int          `json:"count"`
		Items []model.Seat `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.Count)
	require.Len(t, resp.Items, 30)
	assert.Equal(t, model.SideLeft, resp.Items[0].Side)
	assert.Equal(t, model.SideRight, resp.Items[29].Side)

	// Repeat call answers 409.
	c, rec = newJSONRequest(http.MethodPost, "/v1/admin/seats/initialize", echo.Map{
		"class_id": classID, "session_id": sessionID,
	})
	asAdmin(c)
	require.NoError(t, admin.InitializeSeats(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown session answers 404.
	c, rec = newJSONRequest(http.MethodPost, "/v1/admin/seats/initialize", echo.Map{
		"class_id": classID, "session_id": 999,
	})
	asAdmin(c)
	require.NoError(t, admin.InitializeSeats(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSeatsEndpoint(t *testing.T) {
	seatH, admin := setupSeatHandler(t)
	initLayout(t, admin)

	c, rec := newJSONRequest(http.MethodGet, "/", nil)
	c.SetParamNames("class_id", "session_id")
	c.SetParamValues("10", "20")
	asStudent(c, 1)
	require.NoError(t, seatH.ListSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Side   string       `json:"side"`
		Gender string       `json:"gender"`
		Count  int          `json:"count"`
		Items  []model.Seat `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LEFT", resp.Side)
	assert.Equal(t, "FEMALE", resp.Gender)
	assert.Equal(t, 15, resp.Count)

	// Malformed path parameter.
	c, rec = newJSONRequest(http.MethodGet, "/", nil)
	c.SetParamNames("class_id", "session_id")
	c.SetParamValues("abc", "20")
	asStudent(c, 1)
	require.NoError(t, seatH.ListSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookSeatEndpoint(t *testing.T) {
	seatH, admin := setupSeatHandler(t)
	initLayout(t, admin)

	// Seat 1 is LEFT; student 1 is FEMALE so the claim succeeds.
	c, rec := newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 1})
	asStudent(c, 1)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Item model.Seat `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Item.IsTaken)
	require.NotNil(t, resp.Item.StudentID)
	assert.Equal(t, uint64(1), *resp.Item.StudentID)

	// Student 2 is MALE; seat 1 sits in the left block.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 1})
	asStudent(c, 2)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Seat 16 is RIGHT and free; the male student can take it.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 16})
	asStudent(c, 2)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown seat.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 9999})
	asStudent(c, 1)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing seat_id.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{})
	asStudent(c, 1)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookSeatConflict(t *testing.T) {
	seatH, admin := setupSeatHandler(t)
	initLayout(t, admin)

	c, rec := newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 2})
	asStudent(c, 1)
	require.NoError(t, seatH.BookSeat(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// A second female student targeting the same seat loses with 409.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 2})
	asStudent(c, 3)
	require.NoError(t, seatH.BookSeat(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReleaseSeatEndpoint(t *testing.T) {
	seatH, admin := setupSeatHandler(t)
	initLayout(t, admin)

	c, rec := newJSONRequest(http.MethodPost, "/v1/seats/book", echo.Map{"seat_id": 3})
	asStudent(c, 1)
	require.NoError(t, seatH.BookSeat(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// The male student does not own seat 3.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/release", echo.Map{"seat_id": 3})
	asStudent(c, 2)
	require.NoError(t, seatH.ReleaseSeat(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner can release it.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/release", echo.Map{"seat_id": 3})
	asStudent(c, 1)
	require.NoError(t, seatH.ReleaseSeat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Item model.Seat `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Item.IsTaken)
	assert.Nil(t, resp.Item.StudentID)

	// Releasing again is no longer ownership.
	c, rec = newJSONRequest(http.MethodPost, "/v1/seats/release", echo.Map{"seat_id": 3})
	asStudent(c, 1)
	require.NoError(t, seatH.ReleaseSeat(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
