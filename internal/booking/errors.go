// Package booking implements the seat allocation engine: eligibility
// checks, the atomic claim, release, partition-filtered listing and the
// one-shot layout initialization for a (class, session) pair.  It talks
// to persistence through the store interfaces defined in store.go so
// that the concurrency-sensitive pieces can be tested without a
// database.
package booking

import "errors"

// Sentinel errors returned by the engine and expected from store
// implementations.  Handlers translate these into HTTP responses:
// not-found values and ErrNotOwner become 404, ErrWrongSide becomes
// 403, ErrSeatTaken and ErrAlreadyInitialized become 409.
var (
	// ErrSeatNotFound is returned when a seat lookup yields no record.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrSessionNotFound is returned when the targeted session does not
	// exist.  Listing and initialization fail fast on it so stale client
	// state never touches seat records.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStudentNotFound is returned when the acting student has no
	// stored record.  Eligibility is always resolved from the stored
	// record, never from request data.
	ErrStudentNotFound = errors.New("student not found")

	// ErrWrongSide is returned when a student attempts to claim a seat
	// outside the partition their gender maps to, regardless of the
	// seat being free.
	ErrWrongSide = errors.New("seat is on the wrong side for this student")

	// ErrSeatTaken is returned when the conditional claim finds the seat
	// already owned.  Callers are expected to pick a different seat, not
	// to retry the same one.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrNotOwner is returned when a release targets a seat the caller
	// does not currently own.
	ErrNotOwner = errors.New("seat not owned by student")

	// ErrAlreadyInitialized is returned when seats already exist for a
	// (class, session) pair.  Initialization is one-shot per pair.
	ErrAlreadyInitialized = errors.New("seats already initialized for this class and session")
)
