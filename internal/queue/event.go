// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatBookedEvent is published when a student successfully claims a seat.
// It carries enough information for downstream consumers to log, notify,
// or feed attendance tooling without querying the primary database.
type SeatBookedEvent struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber uint32 `json:"seat_number"`
	Side       string `json:"side"`
	ClassID    uint64 `json:"class_id"`
	SessionID  uint64 `json:"session_id"`
	SchoolID   uint64 `json:"school_id"`
	StudentID  uint64 `json:"student_id"`
	BookedAt   string `json:"booked_at"`
}
