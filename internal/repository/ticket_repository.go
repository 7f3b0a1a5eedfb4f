package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// TicketRepo provides read access to tickets plus the cancel path.
// Ticket creation happens exclusively through the allocation store so
// that capacity counters and ticket rows always move together.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, serial, event_id, tier_id, user_id, guest_email, status,
       price_cents, venue_id, sector_id, seat_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
    var t model.Ticket
    var userID, venueID, sectorID, seatID sql.NullInt64
    var guestEmail sql.NullString
    err := row.Scan(
        &t.ID, &t.Serial, &t.EventID, &t.TierID, &userID, &guestEmail, &t.Status,
        &t.PriceCents, &venueID, &sectorID, &seatID, &t.CreatedAt, &t.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if userID.Valid {
        v := uint64(userID.Int64)
        t.UserID = &v
    }
    if guestEmail.Valid {
        g := guestEmail.String
        t.GuestEmail = &g
    }
    if venueID.Valid {
        v := uint64(venueID.Int64)
        t.VenueID = &v
    }
    if sectorID.Valid {
        v := uint64(sectorID.Int64)
        t.SectorID = &v
    }
    if seatID.Valid {
        v := uint64(seatID.Int64)
        t.SeatID = &v
    }
    return &t, nil
}

// GetByID retrieves a ticket by id.  Returns ErrTicketNotFound when no
// row exists.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
    const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
    t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTicketNotFound
        }
        return nil, err
    }
    return t, nil
}

// ListByUser returns all of a user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
    const q = `SELECT ` + ticketColumns + ` FROM tickets
               WHERE user_id = ?
               ORDER BY created_at DESC`
    return r.list(ctx, q, userID)
}

// ListByEvent returns all tickets of an event, newest first.  Used by
// organizer endpoints.
func (r *TicketRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
    const q = `SELECT ` + ticketColumns + ` FROM tickets
               WHERE event_id = ?
               ORDER BY created_at DESC`
    return r.list(ctx, q, eventID)
}

func (r *TicketRepo) list(ctx context.Context, query string, arg any) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx, query, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tickets := make([]model.Ticket, 0)
    for rows.Next() {
        t, err := scanTicket(rows)
        if err != nil {
            return nil, err
        }
        tickets = append(tickets, *t)
    }
    return tickets, rows.Err()
}

// TicketDetails is a denormalized view of one ticket used for
// notifications: the joined names spare consumers a database round
// trip.
type TicketDetails struct {
    Ticket     model.Ticket
    EventTitle string
    TierName   string
    SeatLabel  *string
}

// Describe loads a ticket together with its event title, tier name and
// seat label.
func (r *TicketRepo) Describe(ctx context.Context, ticketID uint64) (*TicketDetails, error) {
    const q = `SELECT ` + ticketColumnsPrefixed + `, e.title, tt.name, vs.label
               FROM tickets t
               JOIN events e ON e.id = t.event_id
               JOIN ticket_tiers tt ON tt.id = t.tier_id
               LEFT JOIN venue_seats vs ON vs.id = t.seat_id
               WHERE t.id = ?`
    var d TicketDetails
    var userID, venueID, sectorID, seatID sql.NullInt64
    var guestEmail, seatLabel sql.NullString
    err := r.db.QueryRowContext(ctx, q, ticketID).Scan(
        &d.Ticket.ID, &d.Ticket.Serial, &d.Ticket.EventID, &d.Ticket.TierID,
        &userID, &guestEmail, &d.Ticket.Status, &d.Ticket.PriceCents,
        &venueID, &sectorID, &seatID, &d.Ticket.CreatedAt, &d.Ticket.UpdatedAt,
        &d.EventTitle, &d.TierName, &seatLabel,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTicketNotFound
        }
        return nil, err
    }
    if userID.Valid {
        v := uint64(userID.Int64)
        d.Ticket.UserID = &v
    }
    if guestEmail.Valid {
        g := guestEmail.String
        d.Ticket.GuestEmail = &g
    }
    if venueID.Valid {
        v := uint64(venueID.Int64)
        d.Ticket.VenueID = &v
    }
    if sectorID.Valid {
        v := uint64(sectorID.Int64)
        d.Ticket.SectorID = &v
    }
    if seatID.Valid {
        v := uint64(seatID.Int64)
        d.Ticket.SeatID = &v
    }
    if seatLabel.Valid {
        s := seatLabel.String
        d.SeatLabel = &s
    }
    return &d, nil
}

const ticketColumnsPrefixed = `t.id, t.serial, t.event_id, t.tier_id, t.user_id,
       t.guest_email, t.status, t.price_cents, t.venue_id, t.sector_id, t.seat_id,
       t.created_at, t.updated_at`

// Cancel transitions a ticket to CANCELLED and decrements the owning
// tier's quantity_sold inside one transaction.  The tier row is locked
// first, mirroring the allocation lock order, so the counter moves
// atomically with the status change.  The status transition itself is
// a conditional UPDATE: the initial read runs without a lock, so two
// concurrent cancels of the same ticket could both observe ACTIVE and
// both decrement the counter.  Only the transaction whose UPDATE
// matched a row decrements.  Any seat the ticket claimed is freed
// implicitly: claim state is derived from non-cancelled tickets.
//
// Returns ErrTicketNotFound when the ticket does not exist,
// ErrForbidden when it belongs to another user, and ErrConflict when
// it is already cancelled or checked in (including a concurrent cancel
// winning the race).
func (r *TicketRepo) Cancel(ctx context.Context, ticketID, userID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var (
        tierID      uint64
        ownerUserID sql.NullInt64
        status      string
    )
    const sel = `SELECT tier_id, user_id, status FROM tickets WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, ticketID).Scan(&tierID, &ownerUserID, &status); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrTicketNotFound
        }
        return err
    }
    if !ownerUserID.Valid || uint64(ownerUserID.Int64) != userID {
        return ErrForbidden
    }
    if status == model.TicketStatusCancelled || status == model.TicketStatusCheckedIn {
        return ErrConflict
    }

    // Lock the tier row before writing the counter.
    var sold uint32
    const lockQ = `SELECT quantity_sold FROM ticket_tiers WHERE id = ? FOR UPDATE`
    if err := tx.QueryRowContext(ctx, lockQ, tierID).Scan(&sold); err != nil {
        return err
    }
    const upd = `UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP
                 WHERE id = ? AND status NOT IN (?, ?)`
    res, err := tx.ExecContext(ctx, upd, model.TicketStatusCancelled, ticketID,
        model.TicketStatusCancelled, model.TicketStatusCheckedIn)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        // A concurrent cancel or check-in committed between the
        // unlocked read and this UPDATE.
        return ErrConflict
    }
    if sold > 0 {
        const dec = `UPDATE ticket_tiers
                     SET quantity_sold = quantity_sold - 1, updated_at = CURRENT_TIMESTAMP
                     WHERE id = ?`
        if _, err := tx.ExecContext(ctx, dec, tierID); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
