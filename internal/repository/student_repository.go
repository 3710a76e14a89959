package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/school-seat-booking/internal/booking"
	"github.com/iliyamo/school-seat-booking/internal/model"
)

// StudentRepo reads student records.  The seat subsystem never writes
// students; gender and class come from here so a client can not spoof
// its partition eligibility.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

const studentColumns = `id, name, email, password_hash, gender, class_id, school_id, created_at`

func scanStudent(sc interface{ Scan(dest ...any) error }) (*model.Student, error) {
	var s model.Student
	err := sc.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Gender, &s.ClassID, &s.SchoolID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStudent retrieves a student by id.
func (r *StudentRepo) GetStudent(ctx context.Context, id uint64) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	s, err := scanStudent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByEmail fetches a student by normalized email for the login flow.
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT ` + studentColumns + ` FROM students WHERE email = ? LIMIT 1`
	s, err := scanStudent(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}
