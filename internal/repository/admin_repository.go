package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/school-seat-booking/internal/model"
)

// ErrAdminNotFound is returned when an admin lookup yields no rows.
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepo reads admin accounts for the login flow and for resolving
// which school a token acts on.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo with the given DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, name, email, password_hash, school_id, created_at
			   FROM admins WHERE email = ? LIMIT 1`
	var a model.Admin
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.SchoolID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}
