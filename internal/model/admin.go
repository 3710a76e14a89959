package model

import "time"

// Admin mirrors the `admins` table.  Admins manage sessions and seat
// layouts for their school; they never claim seats themselves.
type Admin struct {
	ID           uint64    `json:"id"`         // admins.id
	Name         string    `json:"name"`       // admins.name
	Email        string    `json:"email"`      // admins.email
	PasswordHash string    `json:"-"`          // admins.password_hash
	SchoolID     uint64    `json:"school_id"`  // admins.school_id
	CreatedAt    time.Time `json:"created_at"` // admins.created_at
}
