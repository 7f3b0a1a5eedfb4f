package allocation

import (
    "context"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// SeatRef identifies a concrete seat together with its sector and
// venue so a ticket row can be fully attributed without extra reads.
type SeatRef struct {
    SeatID   uint64
    SectorID uint64
    VenueID  uint64
}

// Item is one purchase request inside a checkout.  One ticket is
// created per item.  SeatID is required for USER_CHOICE tiers and
// ignored otherwise.
type Item struct {
    SeatID *uint64
}

// Tx is the transactional surface the engine allocates through.  Every
// method runs inside the transaction opened by Store.WithTx.  Lock
// methods must take exclusive row locks (SELECT ... FOR UPDATE or the
// equivalent) and must be called in a fixed order — the tier row
// first, then seat rows — to keep concurrent allocations deadlock-free.
type Tx interface {
    // LockTier loads the tier row under an exclusive lock.  Counters
    // read from the returned value are protected until commit.
    LockTier(ctx context.Context, tierID uint64) (*model.TicketTier, error)

    // CountUserTickets returns the user's non-cancelled ticket count
    // for the tier.
    CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error)

    // CountDistinctAttendees returns the number of distinct users
    // participating in the event: non-cancelled ticket holders for
    // ticketed events plus "YES" RSVPs for RSVP events.
    CountDistinctAttendees(ctx context.Context, eventID uint64) (uint32, error)

    // UserAttends reports whether the user is already counted by
    // CountDistinctAttendees.
    UserAttends(ctx context.Context, eventID, userID uint64) (bool, error)

    // LockFreeSeats locks and returns up to limit active seats of the
    // sector that are not claimed by a non-cancelled ticket for an
    // event that has not ended.
    LockFreeSeats(ctx context.Context, sectorID uint64, limit int) ([]SeatRef, error)

    // LockSeat locks one seat row and reports whether the seat exists
    // in the given sector, is active, and whether it is currently
    // claimed.
    LockSeat(ctx context.Context, sectorID, seatID uint64) (ref SeatRef, active bool, claimed bool, err error)

    // IncrementQuantitySold adds delta to the tier's quantity_sold
    // counter.  Called at most once per allocation, under the tier lock.
    IncrementQuantitySold(ctx context.Context, tierID uint64, delta uint32) error

    // InsertTickets persists the ticket rows and populates their IDs.
    InsertTickets(ctx context.Context, tickets []*model.Ticket) error
}

// Store opens allocation transactions and serves the advisory reads
// that run before any lock is taken.
type Store interface {
    // WithTx runs fn inside one transaction, committing when fn
    // returns nil and rolling back otherwise.  No partial writes
    // survive a failed allocation.
    WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

    // HasNonOnlineTicket reports whether a non-cancelled ticket
    // already exists for (event, tier, user).  Used by the re-purchase
    // guard before any locking occurs.
    HasNonOnlineTicket(ctx context.Context, eventID, tierID, userID uint64) (bool, error)

    // CountUserTickets is the lock-free variant used to pre-validate
    // batch sizes; the count is re-checked under lock afterwards.
    CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error)
}
