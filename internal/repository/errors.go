// Package repository implements data access against MySQL in plain
// database/sql.  Methods with a Tx suffix run inside a caller-supplied
// transaction; everything else uses the pooled handle directly.  All
// timestamps are stored and compared in UTC.
//
// This file defines sentinel errors reused across repositories so that
// higher layers can distinguish failure scenarios with errors.Is.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling a ticket that is already
// checked in.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per aggregate.  They all wrap into 404 at
// the HTTP boundary but keep log lines precise.
var (
    ErrEventNotFound  = errors.New("event not found")
    ErrTierNotFound   = errors.New("ticket tier not found")
    ErrTicketNotFound = errors.New("ticket not found")
    ErrVenueNotFound  = errors.New("venue not found")
    ErrSeatNotFound   = errors.New("seat not found")
)
