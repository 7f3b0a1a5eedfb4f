package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// InvitationRepo provides access to event_invitations.
type InvitationRepo struct {
    db *sql.DB
}

// NewInvitationRepo returns a new InvitationRepo bound to the database.
func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{db: db} }

const invitationColumns = `id, event_id, user_id, tier_id, waive_membership,
       waive_questionnaire, waive_purchase, waive_rsvp_deadline,
       override_max_attendees, created_at`

func scanInvitation(row interface{ Scan(...any) error }) (*model.EventInvitation, error) {
    var inv model.EventInvitation
    var tierID sql.NullInt64
    err := row.Scan(
        &inv.ID, &inv.EventID, &inv.UserID, &tierID, &inv.WaiveMembership,
        &inv.WaiveQuestionnaire, &inv.WaivePurchase, &inv.WaiveRSVPDeadline,
        &inv.OverrideMaxAttendees, &inv.CreatedAt,
    )
    if err != nil {
        return nil, err
    }
    if tierID.Valid {
        v := uint64(tierID.Int64)
        inv.TierID = &v
    }
    return &inv, nil
}

// Create inserts an invitation.  On success the ID is populated.
func (r *InvitationRepo) Create(ctx context.Context, inv *model.EventInvitation) error {
    const q = `INSERT INTO event_invitations
        (event_id, user_id, tier_id, waive_membership, waive_questionnaire,
         waive_purchase, waive_rsvp_deadline, override_max_attendees)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        inv.EventID, inv.UserID, nullableUint64(inv.TierID), inv.WaiveMembership,
        inv.WaiveQuestionnaire, inv.WaivePurchase, inv.WaiveRSVPDeadline,
        inv.OverrideMaxAttendees,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    inv.ID = uint64(id)
    return nil
}

// GetByEventAndUser returns the user's invitation for the event, or
// nil when none exists.
func (r *InvitationRepo) GetByEventAndUser(ctx context.Context, eventID, userID uint64) (*model.EventInvitation, error) {
    const q = `SELECT ` + invitationColumns + ` FROM event_invitations
               WHERE event_id = ? AND user_id = ?`
    inv, err := scanInvitation(r.db.QueryRowContext(ctx, q, eventID, userID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return inv, nil
}

// ListByEvent returns all invitations for an event.
func (r *InvitationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventInvitation, error) {
    const q = `SELECT ` + invitationColumns + ` FROM event_invitations
               WHERE event_id = ?
               ORDER BY created_at`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    invitations := make([]model.EventInvitation, 0)
    for rows.Next() {
        inv, err := scanInvitation(rows)
        if err != nil {
            return nil, err
        }
        invitations = append(invitations, *inv)
    }
    return invitations, rows.Err()
}
