package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"time"         // time for the booked_at timestamp

	"github.com/go-sql-driver/mysql" // mysql exposes driver error codes

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
)

// SeatRepo provides methods to work with seats in the database.  It
// implements booking.SeatStore.  The claim and release paths are
// single conditional UPDATE statements; the database decides the race,
// the repo only reports RowsAffected.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, class_id, session_id, school_id, seat_number, side, seat_row, seat_col,
					 is_taken, student_id, booked_at, created_at, updated_at`

// scanSeat reads one seat row from any scanner (sql.Row or sql.Rows).
func scanSeat(sc interface{ Scan(dest ...any) error }) (*model.Seat, error) {
	var s model.Seat
	var studentID sql.NullInt64
	var bookedAt sql.NullTime
	err := sc.Scan(
		&s.ID, &s.ClassID, &s.SessionID, &s.SchoolID, &s.SeatNumber, &s.Side, &s.Row, &s.Col,
		&s.IsTaken, &studentID, &bookedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if studentID.Valid {
		sid := uint64(studentID.Int64)
		s.StudentID = &sid
	}
	if bookedAt.Valid {
		t := bookedAt.Time.UTC()
		s.BookedAt = &t
	}
	return &s, nil
}

// GetSeat retrieves a seat by its id.
func (r *SeatRepo) GetSeat(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListBySide retrieves the seats of one partition for a class and
// session ordered by seat_number.  The (class_id, session_id, side,
// is_taken) index keeps this query cheap for availability views.
func (r *SeatRepo) ListBySide(ctx context.Context, classID, sessionID uint64, side model.Side) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
			   FROM seats
			   WHERE class_id = ? AND session_id = ? AND side = ?
			   ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, classID, sessionID, string(side))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountSeats reports the number of seats stored for a class and session.
func (r *SeatRepo) CountSeats(ctx context.Context, classID, sessionID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE class_id = ? AND session_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, classID, sessionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBatch inserts a full layout in a single multi-row statement and
// queries the stored rows back so callers receive seats with ids and
// timestamps populated.  One statement means the insert is atomic: a
// failure leaves no partial layout behind to trip the one-shot guard.
func (r *SeatRepo) CreateBatch(ctx context.Context, seats []model.Seat) ([]model.Seat, error) {
	if len(seats) == 0 {
		return nil, nil
	}
	query := `INSERT INTO seats (class_id, session_id, school_id, seat_number, side, seat_row, seat_col) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.ClassID, s.SessionID, s.SchoolID, s.SeatNumber, string(s.Side), s.Row, s.Col)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		// Two admins initializing concurrently can both pass the count
		// guard; the UNIQUE(class_id, session_id, seat_number) key makes
		// the loser's insert fail with a duplicate entry.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict
		}
		return nil, err
	}
	const sel = `SELECT ` + seatColumns + `
				 FROM seats
				 WHERE class_id = ? AND session_id = ?
				 ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, sel, seats[0].ClassID, seats[0].SessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	created := make([]model.Seat, 0, len(seats))
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return created, nil
}

// ClaimIfFree performs the compare-and-set claim.  The WHERE clause
// checks "still free" and the SET applies the claim in the same
// statement, so two concurrent claimants can never both succeed; the
// loser sees zero rows affected.
func (r *SeatRepo) ClaimIfFree(ctx context.Context, seatID, studentID uint64, at time.Time) (bool, error) {
	const q = `UPDATE seats
			   SET is_taken = 1, student_id = ?, booked_at = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND is_taken = 0 AND student_id IS NULL`
	res, err := r.db.ExecContext(ctx, q, studentID, at.UTC().Format("2006-01-02 15:04:05"), seatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseOwned vacates a seat only when the given student owns it.
func (r *SeatRepo) ReleaseOwned(ctx context.Context, seatID, studentID uint64) (bool, error) {
	const q = `UPDATE seats
			   SET is_taken = 0, student_id = NULL, booked_at = NULL, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND student_id = ?`
	res, err := r.db.ExecContext(ctx, q, seatID, studentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// VacateByStudent frees every seat the student holds within one class
// and session.  Deliberately not race-guarded: a concurrent claim that
// slips past this cleanup leaves one stale seat which the student's
// next claim clears again.
func (r *SeatRepo) VacateByStudent(ctx context.Context, classID, sessionID, studentID uint64) (int64, error) {
	const q = `UPDATE seats
			   SET is_taken = 0, student_id = NULL, booked_at = NULL, updated_at = CURRENT_TIMESTAMP
			   WHERE class_id = ? AND session_id = ? AND student_id = ?`
	res, err := r.db.ExecContext(ctx, q, classID, sessionID, studentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
