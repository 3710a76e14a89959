package model

import "time"

// Session is a time-bounded enrollment period that seat layouts are
// scoped to.  At most one session per school is active at a time; the
// activation flow deactivates all others before flipping the flag.
type Session struct {
	ID        uint64    `json:"id"`         // sessions.id
	SchoolID  uint64    `json:"school_id"`  // sessions.school_id
	Name      string    `json:"name"`       // sessions.name (e.g. "2026/2027")
	StartsOn  time.Time `json:"starts_on"`  // sessions.starts_on
	EndsOn    time.Time `json:"ends_on"`    // sessions.ends_on
	IsActive  bool      `json:"is_active"`  // sessions.is_active
	CreatedAt time.Time `json:"created_at"` // sessions.created_at
}
