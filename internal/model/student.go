package model

import "time"

// Student mirrors the `students` table.  The seat subsystem only ever
// reads students: gender drives the partition policy and class/session
// enrollment scopes the seats a student may see.  The password hash is
// used by the login endpoint and never serialized.
type Student struct {
	ID           uint64    `json:"id"`         // students.id
	Name         string    `json:"name"`       // students.name
	Email        string    `json:"email"`      // students.email
	PasswordHash string    `json:"-"`          // students.password_hash
	Gender       string    `json:"gender"`     // students.gender (MALE/FEMALE)
	ClassID      uint64    `json:"class_id"`   // students.class_id
	SchoolID     uint64    `json:"school_id"`  // students.school_id
	CreatedAt    time.Time `json:"created_at"` // students.created_at
}
