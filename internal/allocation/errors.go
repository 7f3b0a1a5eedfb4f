// Package allocation implements the concurrency-safe ticket and seat
// allocation engine: capacity validation under exclusive row locks,
// seat resolution per tier seat mode, and single/batch checkout.  The
// package holds no SQL; persistence is reached through the narrow
// Store and Tx interfaces so the locking discipline can be tested
// without a database.
package allocation

import (
    "errors"
    "fmt"
)

// CapacityScope identifies the dimension a reservation failed against.
type CapacityScope string

const (
    ScopeTier  CapacityScope = "tier"
    ScopeEvent CapacityScope = "event"
    ScopeUser  CapacityScope = "user"
)

// CapacityError reports an allocation failure with enough structure
// for a client to render a specific remediation: the failing scope and
// how many more tickets could still be issued in that scope.
type CapacityError struct {
    Scope     CapacityScope `json:"scope"`
    Remaining uint32        `json:"remaining"`
}

// Error implements the error interface.  The wording distinguishes
// "nothing left" from "partially left" in every scope.
func (e *CapacityError) Error() string {
    switch e.Scope {
    case ScopeUser:
        if e.Remaining == 0 {
            return "you already have the maximum number of tickets for this tier"
        }
        return fmt.Sprintf("you can only purchase %d more ticket(s) for this tier", e.Remaining)
    case ScopeTier:
        if e.Remaining == 0 {
            return "this tier is sold out"
        }
        return fmt.Sprintf("only %d ticket(s) remaining in this tier", e.Remaining)
    case ScopeEvent:
        if e.Remaining == 0 {
            return "this event is full"
        }
        return fmt.Sprintf("only %d place(s) remaining for this event", e.Remaining)
    }
    return "capacity exceeded"
}

// ConfigurationError signals a programmer error such as a seated tier
// without a sector binding.  It is not part of the normal business
// flow and should surface as a 5xx at the HTTP boundary.
type ConfigurationError struct {
    Msg string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string { return "allocation misconfigured: " + e.Msg }

// Sentinel errors for expected business conditions.  Handlers match
// them with errors.Is.
var (
    // ErrAlreadyHasTicket is returned by the re-purchase guard when a
    // non-online ticket already exists for (event, tier, user).
    ErrAlreadyHasTicket = errors.New("already have a ticket for this tier")

    // ErrNotEnoughSeats is returned by RANDOM seat resolution when the
    // sector has fewer free seats than requested items.
    ErrNotEnoughSeats = errors.New("not enough seats available")

    // ErrSeatSelectionRequired is returned by USER_CHOICE resolution
    // when an item carries no seat identifier.
    ErrSeatSelectionRequired = errors.New("seat selection required")

    // ErrSeatUnavailable is returned when a chosen seat is inactive,
    // outside the tier's sector, or already claimed.
    ErrSeatUnavailable = errors.New("seat no longer available")
)
