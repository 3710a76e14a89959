package booking

import (
	"context"
	"time"

	"github.com/iliyamo/school-seat-booking/internal/model"
)

// Engine orchestrates seat allocation.  It owns no state beyond its
// dependencies; every state transition is a single-shot conditional
// write against the SeatStore, so instances are safe for concurrent
// use by request handlers.
type Engine struct {
	seats    SeatStore
	students StudentStore
	sessions SessionStore
	policy   PartitionPolicy
	layout   Layout
	now      func() time.Time // injectable clock for tests
}

// NewEngine constructs an Engine and panics on nil stores, mirroring
// the fail-fast wiring used by the HTTP handlers.
func NewEngine(seats SeatStore, students StudentStore, sessions SessionStore, policy PartitionPolicy, layout Layout) *Engine {
	if seats == nil || students == nil || sessions == nil {
		panic("nil store passed to NewEngine")
	}
	if policy == nil {
		policy = GenderPartition("FEMALE")
	}
	return &Engine{
		seats:    seats,
		students: students,
		sessions: sessions,
		policy:   policy,
		layout:   layout.normalized(),
		now:      time.Now,
	}
}

// SeatList is the result of a partition-filtered listing.  Side and
// Gender echo back what the policy resolved for the caller so the
// client can render the correct half of the room.
type SeatList struct {
	Seats  []model.Seat `json:"items"`
	Side   model.Side   `json:"side"`
	Gender string       `json:"gender"`
}

// ListSeats returns the seats of the caller's allowed partition for a
// (class, session) pair, ordered by seat number.  The session must
// exist; the student's stored record decides the partition.
func (e *Engine) ListSeats(ctx context.Context, classID, sessionID, studentID uint64) (*SeatList, error) {
	if _, err := e.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	st, err := e.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	side := e.policy(st.Gender)
	seats, err := e.seats.ListBySide(ctx, classID, sessionID, side)
	if err != nil {
		return nil, err
	}
	return &SeatList{Seats: seats, Side: side, Gender: st.Gender}, nil
}

// Claim assigns a seat to a student.  The sequence is: resolve the
// student's partition from the stored record, check the seat exists
// and sits on the allowed side, vacate any seat the student already
// holds in the same (class, session), then perform the conditional
// claim.  Only the final write is race-guarded; losing the cleanup
// race leaves at most one stale seat which self-heals on the
// student's next claim.
func (e *Engine) Claim(ctx context.Context, seatID, studentID uint64) (*model.Seat, error) {
	st, err := e.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	seat, err := e.seats.GetSeat(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if seat.Side != e.policy(st.Gender) {
		return nil, ErrWrongSide
	}
	// A student holds at most one seat per (class, session); switching
	// seats implicitly releases the old one before the new claim.
	if _, err := e.seats.VacateByStudent(ctx, seat.ClassID, seat.SessionID, studentID); err != nil {
		return nil, err
	}
	ok, err := e.seats.ClaimIfFree(ctx, seatID, studentID, e.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race; another student's claim stands untouched.
		return nil, ErrSeatTaken
	}
	return e.seats.GetSeat(ctx, seatID)
}

// Release vacates a seat, but only when the requesting student owns
// it.  A release on a missing seat reports ErrSeatNotFound; on a seat
// owned by someone else, ErrNotOwner with the seat state unchanged.
func (e *Engine) Release(ctx context.Context, seatID, studentID uint64) (*model.Seat, error) {
	ok, err := e.seats.ReleaseOwned(ctx, seatID, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := e.seats.GetSeat(ctx, seatID); err != nil {
			return nil, err
		}
		return nil, ErrNotOwner
	}
	return e.seats.GetSeat(ctx, seatID)
}

// Initialize creates the seat layout for a (class, session) pair.  It
// is one-shot: when any seat already exists for the pair the call
// fails with ErrAlreadyInitialized and nothing is written.  The batch
// goes to the store as a single insert so a partial layout is never
// visible as "already initialized".
func (e *Engine) Initialize(ctx context.Context, classID, sessionID, schoolID uint64) ([]model.Seat, error) {
	if _, err := e.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	n, err := e.seats.CountSeats(ctx, classID, sessionID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyInitialized
	}
	return e.seats.CreateBatch(ctx, e.layout.Generate(classID, sessionID, schoolID))
}
