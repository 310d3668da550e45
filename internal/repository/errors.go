// Package repository defines sentinel errors reused across repositories.
// Higher layers match on these with errors.Is to pick response codes, for
// example mapping ErrEmailExists to HTTP 409 and the not-found values to
// HTTP 404, without inspecting driver-specific errors themselves.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique email
// constraint.  It is the one storage failure the auth flow must tell apart
// from everything else.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when a refresh session row does not exist.
var ErrTokenNotFound = errors.New("token not found")

// ErrPropertyNotFound is returned when a property cannot be found.
var ErrPropertyNotFound = errors.New("property not found")

// ErrReservationNotFound is returned when a reservation cannot be found.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrChatNotFound is returned when a chat cannot be found.
var ErrChatNotFound = errors.New("chat not found")

// ErrNotParticipant is returned when a user posts to a chat they are not
// part of.
var ErrNotParticipant = errors.New("not a chat participant")
