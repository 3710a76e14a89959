// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a resource owned by another school, while
// ErrConflict signals that an operation cannot proceed due to
// conflicting state.
//
// Not-found conditions on the booking path (seats, sessions, students)
// use the sentinels declared in the booking package instead, since the
// repositories implement its store interfaces.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
