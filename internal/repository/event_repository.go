package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo provides CRUD operations for events.  Derived attendee
// counts are never stored on the event row; they are computed from
// child rows so the allocation engine stays the single writer of
// shared counters.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, organization_id, title, status, visibility, requires_ticket,
       max_attendees, max_tickets_per_user, rsvp_deadline, waitlist_open, venue_id,
       starts_at, ends_at, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
    var ev model.Event
    var maxPerUser sql.NullInt64
    var deadline sql.NullTime
    var venueID sql.NullInt64
    err := row.Scan(
        &ev.ID, &ev.OrganizationID, &ev.Title, &ev.Status, &ev.Visibility, &ev.RequiresTicket,
        &ev.MaxAttendees, &maxPerUser, &deadline, &ev.WaitlistOpen, &venueID,
        &ev.StartsAt, &ev.EndsAt, &ev.CreatedAt, &ev.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if maxPerUser.Valid {
        v := uint32(maxPerUser.Int64)
        ev.MaxTicketsPerUser = &v
    }
    if deadline.Valid {
        d := deadline.Time.UTC()
        ev.RSVPDeadline = &d
    }
    if venueID.Valid {
        v := uint64(venueID.Int64)
        ev.VenueID = &v
    }
    return &ev, nil
}

// Create inserts a new event.  On success the event's ID is populated.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
    const q = `INSERT INTO events
        (organization_id, title, status, visibility, requires_ticket, max_attendees,
         max_tickets_per_user, rsvp_deadline, waitlist_open, venue_id, starts_at, ends_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        ev.OrganizationID, ev.Title, ev.Status, ev.Visibility, ev.RequiresTicket, ev.MaxAttendees,
        nullableUint32(ev.MaxTicketsPerUser), nullableTime(ev.RSVPDeadline), ev.WaitlistOpen,
        nullableUint64(ev.VenueID), ev.StartsAt.UTC(), ev.EndsAt.UTC(),
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    ev.ID = uint64(id)
    return nil
}

// GetByID retrieves an event by id.  Returns ErrEventNotFound when no
// row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
    ev, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEventNotFound
        }
        return nil, err
    }
    return ev, nil
}

// GetByIDForOrganizer retrieves an event while enforcing that the
// caller owns or staffs the owning organization.
func (r *EventRepo) GetByIDForOrganizer(ctx context.Context, id, userID uint64) (*model.Event, error) {
    ev, err := r.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    ok, err := r.isOrganizer(ctx, ev.OrganizationID, userID)
    if err != nil {
        return nil, err
    }
    if !ok {
        return nil, ErrForbidden
    }
    return ev, nil
}

func (r *EventRepo) isOrganizer(ctx context.Context, orgID, userID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM organizations WHERE id = ? AND owner_user_id = ?
               ) OR EXISTS(
                   SELECT 1 FROM organization_staff WHERE organization_id = ? AND user_id = ?
               )`
    var ok bool
    if err := r.db.QueryRowContext(ctx, q, orgID, userID, orgID, userID).Scan(&ok); err != nil {
        return false, err
    }
    return ok, nil
}

// ListOpen returns public events that are currently OPEN and have not
// ended, newest start first.  Used by the public browse endpoints;
// results are display-only and may be cached.
func (r *EventRepo) ListOpen(ctx context.Context, now time.Time) ([]model.Event, error) {
    const q = `SELECT ` + eventColumns + ` FROM events
               WHERE status = ? AND visibility = ? AND ends_at > ?
               ORDER BY starts_at`
    rows, err := r.db.QueryContext(ctx, q, model.EventStatusOpen, model.EventVisibilityPublic, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    events := make([]model.Event, 0)
    for rows.Next() {
        ev, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        events = append(events, *ev)
    }
    return events, rows.Err()
}

// UpdateStatus transitions an event's status.  The caller must have
// verified organizer rights beforehand.
func (r *EventRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE events SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrEventNotFound
    }
    return nil
}

// CountDistinctAttendees computes the number of distinct users
// participating in the event outside any transaction.  This read is
// advisory (display and snapshot use); allocation decisions use the
// locked variant on the allocation store.
func (r *EventRepo) CountDistinctAttendees(ctx context.Context, eventID uint64) (uint32, error) {
    var n uint32
    err := r.db.QueryRowContext(ctx, attendeeCountQuery, eventID, model.TicketStatusCancelled, eventID, model.RSVPYes).Scan(&n)
    return n, err
}

// attendeeCountQuery counts distinct ticket-holding users plus "YES"
// RSVPs, excluding cancelled tickets and guest tickets without users.
const attendeeCountQuery = `SELECT COUNT(*) FROM (
        SELECT user_id FROM tickets
        WHERE event_id = ? AND status <> ? AND user_id IS NOT NULL
        UNION
        SELECT user_id FROM event_rsvps WHERE event_id = ? AND answer = ?
    ) attendees`

// nullable helpers shared across repositories.

func nullableUint32(v *uint32) any {
    if v == nil {
        return nil
    }
    return *v
}

func nullableUint64(v *uint64) any {
    if v == nil {
        return nil
    }
    return *v
}

func nullableTime(v *time.Time) any {
    if v == nil {
        return nil
    }
    return v.UTC()
}
