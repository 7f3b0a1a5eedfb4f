package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-ticketing/internal/allocation"
    "github.com/iliyamo/event-ticketing/internal/model"
)

// AllocationStore is the MySQL implementation of allocation.Store.
// All lock methods use SELECT ... FOR UPDATE so that concurrent
// allocations against the same tier (or seat) serialize on the row
// lock instead of both observing the same pre-increment counters.
type AllocationStore struct {
    db *sql.DB
}

// NewAllocationStore returns an AllocationStore bound to the database.
func NewAllocationStore(db *sql.DB) *AllocationStore { return &AllocationStore{db: db} }

// WithTx runs fn inside one transaction.  The transaction commits only
// when fn returns nil; any error rolls back every write, so a failed
// allocation leaves no partial state behind.
func (s *AllocationStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx allocation.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(ctx, &allocationTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// HasNonOnlineTicket implements the re-purchase guard read.  It runs
// outside any lock by design: a false negative is caught later by the
// per-user cap under the tier lock.
func (s *AllocationStore) HasNonOnlineTicket(ctx context.Context, eventID, tierID, userID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM tickets
                   WHERE event_id = ? AND tier_id = ? AND user_id = ? AND status <> ?
               )`
    var has bool
    err := s.db.QueryRowContext(ctx, q, eventID, tierID, userID, model.TicketStatusCancelled).Scan(&has)
    return has, err
}

// CountUserTickets is the advisory, lock-free variant used to validate
// batch sizes before any contended row is touched.
func (s *AllocationStore) CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error) {
    var n uint32
    err := s.db.QueryRowContext(ctx, userTicketCountQuery, tierID, userID, model.TicketStatusCancelled).Scan(&n)
    return n, err
}

const userTicketCountQuery = `SELECT COUNT(*) FROM tickets
    WHERE tier_id = ? AND user_id = ? AND status <> ?`

// seatClaimedCondition matches seats referenced by a non-cancelled
// ticket whose event has not ended.  Past-event and cancelled tickets
// do not block seat reuse.
const seatClaimedCondition = `EXISTS(
        SELECT 1 FROM tickets t
        JOIN events e ON e.id = t.event_id
        WHERE t.seat_id = vs.id AND t.status <> ? AND e.ends_at > UTC_TIMESTAMP()
    )`

// allocationTx implements allocation.Tx over *sql.Tx.
type allocationTx struct {
    tx *sql.Tx
}

// LockTier loads the tier row under an exclusive lock.  Membership
// restrictions are not loaded here; the allocation engine does not
// need them and keeping the locked read narrow shortens the critical
// section.
func (a *allocationTx) LockTier(ctx context.Context, tierID uint64) (*model.TicketTier, error) {
    const q = `SELECT ` + tierColumns + ` FROM ticket_tiers WHERE id = ? FOR UPDATE`
    t, err := scanTier(a.tx.QueryRowContext(ctx, q, tierID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTierNotFound
        }
        return nil, err
    }
    return t, nil
}

// CountUserTickets counts the user's non-cancelled tickets for the
// tier inside the transaction.
func (a *allocationTx) CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error) {
    var n uint32
    err := a.tx.QueryRowContext(ctx, userTicketCountQuery, tierID, userID, model.TicketStatusCancelled).Scan(&n)
    return n, err
}

// CountDistinctAttendees counts distinct participating users for the
// event: non-cancelled ticket holders plus "YES" RSVPs.
func (a *allocationTx) CountDistinctAttendees(ctx context.Context, eventID uint64) (uint32, error) {
    var n uint32
    err := a.tx.QueryRowContext(ctx, attendeeCountQuery, eventID, model.TicketStatusCancelled, eventID, model.RSVPYes).Scan(&n)
    return n, err
}

// userAttendsQuery reports whether a user is already counted among an
// event's attendees.  Shared with the RSVP capacity re-check.
const userAttendsQuery = `SELECT EXISTS(
        SELECT 1 FROM tickets
        WHERE event_id = ? AND user_id = ? AND status <> ?
    ) OR EXISTS(
        SELECT 1 FROM event_rsvps
        WHERE event_id = ? AND user_id = ? AND answer = ?
    )`

// UserAttends reports whether the user is already counted among the
// event's attendees.
func (a *allocationTx) UserAttends(ctx context.Context, eventID, userID uint64) (bool, error) {
    var attends bool
    err := a.tx.QueryRowContext(ctx, userAttendsQuery, eventID, userID, model.TicketStatusCancelled, eventID, userID, model.RSVPYes).Scan(&attends)
    return attends, err
}

// sectorVenue resolves the venue a sector belongs to.
func (a *allocationTx) sectorVenue(ctx context.Context, sectorID uint64) (uint64, error) {
    var venueID uint64
    err := a.tx.QueryRowContext(ctx, `SELECT venue_id FROM venue_sectors WHERE id = ?`, sectorID).Scan(&venueID)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrSeatNotFound
    }
    return venueID, err
}

// LockFreeSeats locks up to limit active, unclaimed seats of the
// sector.  The rows are locked in id order so two RANDOM allocations
// that slip past the tier lock (different tiers, same sector) acquire
// seat locks in the same order.
func (a *allocationTx) LockFreeSeats(ctx context.Context, sectorID uint64, limit int) ([]allocation.SeatRef, error) {
    venueID, err := a.sectorVenue(ctx, sectorID)
    if err != nil {
        return nil, err
    }
    const q = `SELECT vs.id FROM venue_seats vs
               WHERE vs.sector_id = ? AND vs.is_active = 1 AND NOT ` + seatClaimedCondition + `
               ORDER BY vs.id
               LIMIT ?
               FOR UPDATE`
    rows, err := a.tx.QueryContext(ctx, q, sectorID, model.TicketStatusCancelled, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var refs []allocation.SeatRef
    for rows.Next() {
        var seatID uint64
        if err := rows.Scan(&seatID); err != nil {
            return nil, err
        }
        refs = append(refs, allocation.SeatRef{SeatID: seatID, SectorID: sectorID, VenueID: venueID})
    }
    return refs, rows.Err()
}

// LockSeat locks one seat row and reports its availability.  Locking
// the row before reading the claim state is what makes USER_CHOICE
// race-free: two transactions after the same seat serialize here, and
// the loser observes the winner's committed ticket.
func (a *allocationTx) LockSeat(ctx context.Context, sectorID, seatID uint64) (allocation.SeatRef, bool, bool, error) {
    const q = `SELECT vs.id, vs.is_active, ` + seatClaimedCondition + `
               FROM venue_seats vs
               WHERE vs.id = ? AND vs.sector_id = ?
               FOR UPDATE`
    var (
        id      uint64
        active  bool
        claimed bool
    )
    err := a.tx.QueryRowContext(ctx, q, model.TicketStatusCancelled, seatID, sectorID).Scan(&id, &active, &claimed)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            // Unknown seat or wrong sector: report inactive so the
            // resolver turns it into a seat-unavailable failure.
            return allocation.SeatRef{}, false, false, nil
        }
        return allocation.SeatRef{}, false, false, err
    }
    venueID, err := a.sectorVenue(ctx, sectorID)
    if err != nil {
        return allocation.SeatRef{}, false, false, err
    }
    return allocation.SeatRef{SeatID: id, SectorID: sectorID, VenueID: venueID}, active, claimed, nil
}

// IncrementQuantitySold bumps the tier counter.  Runs under the tier
// row lock taken by LockTier.
func (a *allocationTx) IncrementQuantitySold(ctx context.Context, tierID uint64, delta uint32) error {
    const q = `UPDATE ticket_tiers
               SET quantity_sold = quantity_sold + ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    _, err := a.tx.ExecContext(ctx, q, delta, tierID)
    return err
}

// InsertTickets persists the ticket rows one by one, populating each
// generated ID.
func (a *allocationTx) InsertTickets(ctx context.Context, tickets []*model.Ticket) error {
    const q = `INSERT INTO tickets
        (serial, event_id, tier_id, user_id, guest_email, status, price_cents,
         venue_id, sector_id, seat_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    for _, t := range tickets {
        res, err := a.tx.ExecContext(ctx, q,
            t.Serial, t.EventID, t.TierID, nullableUint64(t.UserID), nullableString(t.GuestEmail),
            t.Status, t.PriceCents, nullableUint64(t.VenueID), nullableUint64(t.SectorID),
            nullableUint64(t.SeatID),
        )
        if err != nil {
            return err
        }
        id, err := res.LastInsertId()
        if err != nil {
            return err
        }
        t.ID = uint64(id)
    }
    return nil
}

func nullableString(v *string) any {
    if v == nil {
        return nil
    }
    return *v
}
