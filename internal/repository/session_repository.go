package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
)

// SessionRepo provides data access for school sessions.  A session is
// the enrollment period seat layouts are scoped to; at most one per
// school is active, which the activation flow enforces by deactivating
// the others inside the same transaction.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning deactivate+activate.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

const sessionColumns = `id, school_id, name, starts_on, ends_on, is_active, created_at`

func scanSession(sc interface{ Scan(dest ...any) error }) (*model.Session, error) {
	var s model.Session
	if err := sc.Scan(&s.ID, &s.SchoolID, &s.Name, &s.StartsOn, &s.EndsOn, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSession retrieves a session by id regardless of school.  The
// booking engine uses it as its existence gate.
func (r *SessionRepo) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByIDAndSchool retrieves a session while enforcing school ownership.
func (r *SessionRepo) GetByIDAndSchool(ctx context.Context, id, schoolID uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND school_id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id, schoolID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetActiveBySchool returns the school's single active session.
func (r *SessionRepo) GetActiveBySchool(ctx context.Context, schoolID uint64) (*model.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE school_id = ? AND is_active = 1 LIMIT 1`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, schoolID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListBySchool returns all sessions of a school, newest first.
func (r *SessionRepo) ListBySchool(ctx context.Context, schoolID uint64) ([]model.Session, error) {
	const q = `SELECT ` + sessionColumns + `
			   FROM sessions
			   WHERE school_id = ?
			   ORDER BY starts_on DESC`
	rows, err := r.db.QueryContext(ctx, q, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
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

// DeactivateAllTx flips every active session of a school to inactive
// within the provided transaction.  Callers run it right before
// creating or activating a session so only one stays active.
func (r *SessionRepo) DeactivateAllTx(ctx context.Context, tx *sql.Tx, schoolID uint64) error {
	const q = `UPDATE sessions SET is_active = 0 WHERE school_id = ? AND is_active = 1`
	_, err := tx.ExecContext(ctx, q, schoolID)
	return err
}

// CreateTx inserts a new session within the transaction and populates
// the generated id on the passed record.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `INSERT INTO sessions (school_id, name, starts_on, ends_on, is_active) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.SchoolID, s.Name,
		s.StartsOn.UTC().Format("2006-01-02"), s.EndsOn.UTC().Format("2006-01-02"), s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.CreatedAt = time.Now().UTC()
	return nil
}

// ActivateTx marks one session active within the transaction.  Returns
// ErrForbidden when the session does not belong to the school.
func (r *SessionRepo) ActivateTx(ctx context.Context, tx *sql.Tx, id, schoolID uint64) error {
	const q = `UPDATE sessions SET is_active = 1 WHERE id = ? AND school_id = ?`
	res, err := tx.ExecContext(ctx, q, id, schoolID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrForbidden
	}
	return nil
}
