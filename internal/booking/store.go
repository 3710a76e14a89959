package booking

import (
	"context"
	"time"

	"github.com/iliyamo/school-seat-booking/internal/model"
)

// SeatStore is the persistence contract the engine runs against.  The
// single hard requirement is that ClaimIfFree is one indivisible
// conditional write: two concurrent claimants for the same free seat
// must never both observe success.  Everything else tolerates ordinary
// request-level concurrency.
type SeatStore interface {
	// GetSeat loads one seat by id.  Returns ErrSeatNotFound when absent.
	GetSeat(ctx context.Context, id uint64) (*model.Seat, error)

	// ListBySide returns the seats of one partition for a (class,
	// session) pair ordered by seat number.
	ListBySide(ctx context.Context, classID, sessionID uint64, side model.Side) ([]model.Seat, error)

	// CountSeats reports how many seats exist for a (class, session)
	// pair.  Used as the one-shot initialization guard.
	CountSeats(ctx context.Context, classID, sessionID uint64) (int, error)

	// CreateBatch persists a freshly generated layout in a single
	// all-or-nothing insert and returns the stored seats with ids.
	CreateBatch(ctx context.Context, seats []model.Seat) ([]model.Seat, error)

	// ClaimIfFree atomically sets owner and booked_at on the seat only
	// if it is free at the moment of the write.  Returns false when the
	// seat was already taken; the caller lost the race.
	ClaimIfFree(ctx context.Context, seatID, studentID uint64, at time.Time) (bool, error)

	// ReleaseOwned vacates the seat only when it is currently owned by
	// the given student.  Returns false when no row matched.
	ReleaseOwned(ctx context.Context, seatID, studentID uint64) (bool, error)

	// VacateByStudent frees every seat the student holds within the
	// (class, session) scope and reports how many were freed.  This is
	// the best-effort cleanup that keeps a student on at most one seat.
	VacateByStudent(ctx context.Context, classID, sessionID, studentID uint64) (int64, error)
}

// StudentStore provides read access to the authoritative student
// records.  Gender must come from here, never from the request.
type StudentStore interface {
	GetStudent(ctx context.Context, id uint64) (*model.Student, error)
}

// SessionStore provides read access to sessions for existence checks.
type SessionStore interface {
	GetSession(ctx context.Context, id uint64) (*model.Session, error)
}
