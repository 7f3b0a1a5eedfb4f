package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-ticketing/internal/allocation"
    "github.com/iliyamo/event-ticketing/internal/model"
)

// RSVPRepo provides access to event_rsvps.  The table has a unique
// (event_id, user_id) key; answering again updates the existing row.
type RSVPRepo struct {
    db *sql.DB
}

// NewRSVPRepo returns a new RSVPRepo bound to the given database.
func NewRSVPRepo(db *sql.DB) *RSVPRepo { return &RSVPRepo{db: db} }

// Upsert records the user's answer for the event, creating or
// replacing the single RSVP row, and returns the stored row.
//
// When maxAttendees is non-zero and the answer is "YES", the
// distinct-attendee count is re-validated under an exclusive lock on
// the event row before the write.  The availability gate ran on an
// unlocked snapshot, so without this check two concurrent "YES"
// answers could both take the last open slot.  The event row plays the
// role the tier row plays for ticket allocations: RSVPs only exist for
// non-ticketed events, so there is no tier lock to serialize on.
// Callers pass maxAttendees = 0 to skip the check (unlimited events,
// invitations overriding the cap, admin bypass, withdrawals).
func (r *RSVPRepo) Upsert(ctx context.Context, eventID, userID uint64, answer string, maxAttendees uint32) (*model.EventRSVP, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if answer == model.RSVPYes && maxAttendees > 0 {
        var id uint64
        const lockQ = `SELECT id FROM events WHERE id = ? FOR UPDATE`
        if err := tx.QueryRowContext(ctx, lockQ, eventID).Scan(&id); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return nil, ErrEventNotFound
            }
            return nil, err
        }
        var attends bool
        err := tx.QueryRowContext(ctx, userAttendsQuery,
            eventID, userID, model.TicketStatusCancelled, eventID, userID, model.RSVPYes,
        ).Scan(&attends)
        if err != nil {
            return nil, err
        }
        // An existing attendee changing MAYBE to YES keeps their slot.
        if !attends {
            var attendees uint32
            err := tx.QueryRowContext(ctx, attendeeCountQuery,
                eventID, model.TicketStatusCancelled, eventID, model.RSVPYes,
            ).Scan(&attendees)
            if err != nil {
                return nil, err
            }
            if attendees+1 > maxAttendees {
                remaining := uint32(0)
                if maxAttendees > attendees {
                    remaining = maxAttendees - attendees
                }
                return nil, &allocation.CapacityError{Scope: allocation.ScopeEvent, Remaining: remaining}
            }
        }
    }

    const q = `INSERT INTO event_rsvps (event_id, user_id, answer)
               VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE answer = VALUES(answer), updated_at = CURRENT_TIMESTAMP`
    if _, err := tx.ExecContext(ctx, q, eventID, userID, answer); err != nil {
        return nil, err
    }

    const sel = `SELECT id, event_id, user_id, answer, created_at, updated_at
                 FROM event_rsvps
                 WHERE event_id = ? AND user_id = ?`
    var rsvp model.EventRSVP
    err = tx.QueryRowContext(ctx, sel, eventID, userID).Scan(
        &rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &rsvp, nil
}

// GetByEventAndUser returns the user's RSVP for the event, or nil when
// none exists.
func (r *RSVPRepo) GetByEventAndUser(ctx context.Context, eventID, userID uint64) (*model.EventRSVP, error) {
    const q = `SELECT id, event_id, user_id, answer, created_at, updated_at
               FROM event_rsvps
               WHERE event_id = ? AND user_id = ?`
    var rsvp model.EventRSVP
    err := r.db.QueryRowContext(ctx, q, eventID, userID).Scan(
        &rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return &rsvp, nil
}

// ListByEvent returns all RSVPs for an event ordered by creation time.
// Used by organizer endpoints.
func (r *RSVPRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventRSVP, error) {
    const q = `SELECT id, event_id, user_id, answer, created_at, updated_at
               FROM event_rsvps
               WHERE event_id = ?
               ORDER BY created_at`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    rsvps := make([]model.EventRSVP, 0)
    for rows.Next() {
        var rsvp model.EventRSVP
        if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
            return nil, err
        }
        rsvps = append(rsvps, rsvp)
    }
    return rsvps, rows.Err()
}
