package model

import "time"

// Side identifies the partition of the room a seat belongs to.  The
// room is split into a left and a right block and students are only
// allowed to claim seats inside the block their category maps to.
type Side string

const (
	SideLeft  Side = "LEFT"  // first half of the numbering range
	SideRight Side = "RIGHT" // second half of the numbering range
)

// Seat describes an exclusively-ownable slot within a (class, session)
// scope.  Seats are uniquely identified by class, session and seat
// number; Row and Col are derived from the seat number at creation
// time and exist purely for rendering the room grid.
//
// Fields:
//  ID         – primary key identifier.
//  ClassID    – class the seat belongs to.
//  SessionID  – session the layout is scoped to.
//  SchoolID   – owning school.
//  SeatNumber – number of the seat within the class layout (1-based).
//  Side       – LEFT or RIGHT partition.
//  Row        – presentational row inside the side block (1-based).
//  Col        – presentational column inside the side block (1-based).
//  IsTaken    – whether the seat is currently claimed.
//  StudentID  – owner of the seat; nil while the seat is free.
//  BookedAt   – when the current owner claimed the seat; nil while free.
type Seat struct {
	ID         uint64     `json:"id"`          // seats.id
	ClassID    uint64     `json:"class_id"`    // seats.class_id
	SessionID  uint64     `json:"session_id"`  // seats.session_id
	SchoolID   uint64     `json:"school_id"`   // seats.school_id
	SeatNumber uint32     `json:"seat_number"` // seats.seat_number
	Side       Side       `json:"side"`        // seats.side
	Row        uint32     `json:"row"`         // seats.seat_row
	Col        uint32     `json:"col"`         // seats.seat_col
	IsTaken    bool       `json:"is_taken"`    // seats.is_taken
	StudentID  *uint64    `json:"student_id"`  // seats.student_id (nullable)
	BookedAt   *time.Time `json:"booked_at"`   // seats.booked_at (nullable)
	CreatedAt  time.Time  `json:"created_at"`  // seats.created_at
	UpdatedAt  time.Time  `json:"updated_at"`  // seats.updated_at
}
