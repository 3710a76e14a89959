package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-seat-booking/internal/model"
)

// fakeSeatStore is an in-memory SeatStore.  ClaimIfFree holds the
// mutex across the check-and-set, matching the atomicity the MySQL
// conditional UPDATE provides, so the engine's race behavior can be
// exercised without a database.
type fakeSeatStore struct {
	mu     sync.Mutex
	seats  map[uint64]*model.Seat
	nextID uint64
}

func newFakeSeatStore() *fakeSeatStore {
	return &fakeSeatStore{seats: map[uint64]*model.Seat{}}
}

func (f *fakeSeatStore) GetSeat(_ context.Context, id uint64) (*model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[id]
	if !ok {
		return nil, ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSeatStore) ListBySide(_ context.Context, classID, sessionID uint64, side model.Side) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Seat
	// Seats were inserted in seat-number order, so walking ids keeps
	// the listing ordered the way the SQL implementation does.
	for id := uint64(1); id <= f.nextID; id++ {
		s, ok := f.seats[id]
		if ok && s.ClassID == classID && s.SessionID == sessionID && s.Side == side {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSeatStore) CountSeats(_ context.Context, classID, sessionID uint64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.seats {
		if s.ClassID == classID && s.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSeatStore) CreateBatch(_ context.Context, seats []model.Seat) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Seat, 0, len(seats))
	for _, s := range seats {
		f.nextID++
		s.ID = f.nextID
		cp := s
		f.seats[s.ID] = &cp
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSeatStore) ClaimIfFree(_ context.Context, seatID, studentID uint64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[seatID]
	if !ok {
		return false, nil
	}
	if s.IsTaken || s.StudentID != nil {
		return false, nil
	}
	sid := studentID
	t := at
	s.IsTaken = true
	s.StudentID = &sid
	s.BookedAt = &t
	return true, nil
}

func (f *fakeSeatStore) ReleaseOwned(_ context.Context, seatID, studentID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seats[seatID]
	if !ok || s.StudentID == nil || *s.StudentID != studentID {
		return false, nil
	}
	s.IsTaken = false
	s.StudentID = nil
	s.BookedAt = nil
	return true, nil
}

func (f *fakeSeatStore) VacateByStudent(_ context.Context, classID, sessionID, studentID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.seats {
		if s.ClassID == classID && s.SessionID == sessionID && s.StudentID != nil && *s.StudentID == studentID {
			s.IsTaken = false
			s.StudentID = nil
			s.BookedAt = nil
			n++
		}
	}
	return n, nil
}

type fakeStudentStore struct {
	students map[uint64]*model.Student
}

func (f *fakeStudentStore) GetStudent(_ context.Context, id uint64) (*model.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeSessionStore struct {
	sessions map[uint64]*model.Session
}

func (f *fakeSessionStore) GetSession(_ context.Context, id uint64) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

const (
	testClassID   = uint64(10)
	testSessionID = uint64(20)
	testSchoolID  = uint64(1)
)

// setup builds an engine over fresh fakes with one known session and a
// handful of students on both sides of the partition.
func setup(t *testing.T) (*Engine, *fakeSeatStore) {
	t.Helper()
	seats := newFakeSeatStore()
	students := &fakeStudentStore{students: map[uint64]*model.Student{
		1: {ID: 1, Name: "Amira", Gender: "FEMALE", ClassID: testClassID, SchoolID: testSchoolID},
		2: {ID: 2, Name: "Basim", Gender: "MALE", ClassID: testClassID, SchoolID: testSchoolID},
		3: {ID: 3, Name: "Dalia", Gender: "female", ClassID: testClassID, SchoolID: testSchoolID},
		4: {ID: 4, Name: "Samir", Gender: "MALE", ClassID: testClassID, SchoolID: testSchoolID},
	}}
	sessions := &fakeSessionStore{sessions: map[uint64]*model.Session{
		testSessionID: {ID: testSessionID, SchoolID: testSchoolID, Name: "2025-2026", IsActive: true},
	}}
	return NewEngine(seats, students, sessions, GenderPartition("FEMALE"), DefaultLayout()), seats
}

func initSeats(t *testing.T, e *Engine) []model.Seat {
	t.Helper()
	seats, err := e.Initialize(context.Background(), testClassID, testSessionID, testSchoolID)
	require.NoError(t, err)
	return seats
}

func TestInitialize(t *testing.T) {
	e, _ := setup(t)
	ctx := context.Background()

	seats := initSeats(t, e)
	require.Len(t, seats, 30)

	for i, s := range seats {
		assert.Equal(t, uint32(i+1), s.SeatNumber)
		if i < 15 {
			assert.Equal(t, model.SideLeft, s.Side, "seat %d", i+1)
		} else {
			assert.Equal(t, model.SideRight, s.Side, "seat %d", i+1)
		}
		assert.False(t, s.IsTaken)
		assert.Nil(t, s.StudentID)
	}

	// Row/col derive from the position inside the side block, 3 per row.
	assert.Equal(t, uint32(1), seats[0].Row)
	assert.Equal(t, uint32(1), seats[0].Col)
	assert.Equal(t, uint32(2), seats[3].Row)
	assert.Equal(t, uint32(1), seats[3].Col)
	assert.Equal(t, uint32(5), seats[14].Row)
	assert.Equal(t, uint32(3), seats[14].Col)
	// Seat 16 is the first of the right block and restarts at row 1.
	assert.Equal(t, uint32(1), seats[15].Row)
	assert.Equal(t, uint32(1), seats[15].Col)

	// One-shot: the second call must not touch the existing layout.
	_, err := e.Initialize(ctx, testClassID, testSessionID, testSchoolID)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// Unknown session is rejected before anything is written.
	_, err = e.Initialize(ctx, testClassID, 999, testSchoolID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSeatsFiltersByPartition(t *testing.T) {
	e, _ := setup(t)
	ctx := context.Background()
	initSeats(t, e)

	list, err := e.ListSeats(ctx, testClassID, testSessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SideLeft, list.Side)
	assert.Len(t, list.Seats, 15)
	for _, s := range list.Seats {
		assert.Equal(t, model.SideLeft, s.Side)
	}

	list, err = e.ListSeats(ctx, testClassID, testSessionID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.SideRight, list.Side)
	assert.Len(t, list.Seats, 15)

	_, err = e.ListSeats(ctx, testClassID, 999, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = e.ListSeats(ctx, testClassID, testSessionID, 777)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestClaim(t *testing.T) {
	e, _ := setup(t)
	ctx := context.Background()
	seats := initSeats(t, e)
	left, right := seats[0], seats[15]

	got, err := e.Claim(ctx, left.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.IsTaken)
	require.NotNil(t, got.StudentID)
	assert.Equal(t, uint64(1), *got.StudentID)
	assert.NotNil(t, got.BookedAt)

	// Same seat again by another eligible student loses cleanly.
	_, err = e.Claim(ctx, left.ID, 3)
	assert.ErrorIs(t, err, ErrSeatTaken)

	// Wrong side is rejected even though the seat is free.
	_, err = e.Claim(ctx, right.ID, 1)
	assert.ErrorIs(t, err, ErrWrongSide)

	_, err = e.Claim(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrSeatNotFound)

	_, err = e.Claim(ctx, left.ID, 777)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestClaimSwitchingSeatsFreesThePreviousOne(t *testing.T) {
	e, store := setup(t)
	ctx := context.Background()
	seats := initSeats(t, e)
	first, second := seats[0], seats[1]

	_, err := e.Claim(ctx, first.ID, 1)
	require.NoError(t, err)

	got, err := e.Claim(ctx, second.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.StudentID)
	assert.Equal(t, uint64(1), *got.StudentID)

	old, err := store.GetSeat(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsTaken)
	assert.Nil(t, old.StudentID)
	assert.Nil(t, old.BookedAt)
}

func TestClaimRaceHasExactlyOneWinner(t *testing.T) {
	e, _ := setup(t)
	ctx := context.Background()
	seats := initSeats(t, e)
	target := seats[2] // LEFT

	claimants := []uint64{1, 3} // both map to LEFT
	const rounds = 50

	for round := 0; round < rounds; round++ {
		// Reset the seat between rounds via the owner's release.
		var wg sync.WaitGroup
		wins := make([]bool, len(claimants))
		for i, sid := range claimants {
			wg.Add(1)
			go func(i int, sid uint64) {
				defer wg.Done()
				if _, err := e.Claim(ctx, target.ID, sid); err == nil {
					wins[i] = true
				}
			}(i, sid)
		}
		wg.Wait()

		winners := 0
		var winner uint64
		for i, won := range wins {
			if won {
				winners++
				winner = claimants[i]
			}
		}
		require.Equal(t, 1, winners, "round %d", round)

		_, err := e.Release(ctx, target.ID, winner)
		require.NoError(t, err)
	}
}

func TestRelease(t *testing.T) {
	e, _ := setup(t)
	ctx := context.Background()
	seats := initSeats(t, e)
	seat := seats[0]

	_, err := e.Claim(ctx, seat.ID, 1)
	require.NoError(t, err)

	// A different student cannot release it, and the seat stays taken.
	_, err = e.Release(ctx, seat.ID, 3)
	assert.ErrorIs(t, err, ErrNotOwner)
	got, err := e.seats.GetSeat(ctx, seat.ID)
	require.NoError(t, err)
	assert.True(t, got.IsTaken)

	_, err = e.Release(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrSeatNotFound)

	got, err = e.Release(ctx, seat.ID, 1)
	require.NoError(t, err)
	assert.False(t, got.IsTaken)
	assert.Nil(t, got.StudentID)
	assert.Nil(t, got.BookedAt)

	// Releasing an already-free seat is not ownership.
	_, err = e.Release(ctx, seat.ID, 1)
	assert.ErrorIs(t, err, ErrNotOwner)
}

// TestBookingScenario walks the whole lifecycle: layout creation, a
// claim, a seat switch, a lost conflict and a wrong-side rejection.
func TestBookingScenario(t *testing.T) {
	e, store := setup(t)
	ctx := context.Background()

	seats := initSeats(t, e)
	require.Len(t, seats, 30)
	assert.Equal(t, model.SideLeft, seats[0].Side)
	assert.Equal(t, model.SideLeft, seats[14].Side)
	assert.Equal(t, model.SideRight, seats[15].Side)
	assert.Equal(t, model.SideRight, seats[29].Side)

	// Female student takes seat 7.
	got, err := e.Claim(ctx, seats[6].ID, 1)
	require.NoError(t, err)
	assert.True(t, got.IsTaken)
	require.NotNil(t, got.StudentID)
	assert.Equal(t, uint64(1), *got.StudentID)

	// Later she moves to seat 3; seat 7 frees up.
	got, err = e.Claim(ctx, seats[2].ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.StudentID)
	assert.Equal(t, uint64(1), *got.StudentID)
	old, err := store.GetSeat(ctx, seats[6].ID)
	require.NoError(t, err)
	assert.False(t, old.IsTaken)
	assert.Nil(t, old.StudentID)

	// Another female student targeting seat 3 loses.
	_, err = e.Claim(ctx, seats[2].ID, 3)
	assert.ErrorIs(t, err, ErrSeatTaken)

	// A male student is rejected on seat 3 for the side, not occupancy.
	_, err = e.Claim(ctx, seats[2].ID, 2)
	assert.ErrorIs(t, err, ErrWrongSide)
}
