package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/event-ticketing/internal/eligibility"
    "github.com/iliyamo/event-ticketing/internal/model"
)

// SnapshotRepo implements eligibility.Loader: one batched read that
// collects every fact the gate chain needs.  All reads run outside any
// lock; the snapshot is advisory and never used for capacity writes.
type SnapshotRepo struct {
    db *sql.DB
}

// NewSnapshotRepo returns a new SnapshotRepo bound to the database.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// LoadParticipationSnapshot loads the (user, event) participation
// facts in one batch.  After this returns, gate evaluation issues zero
// further queries.
func (r *SnapshotRepo) LoadParticipationSnapshot(ctx context.Context, userID, eventID uint64) (*eligibility.Snapshot, error) {
    snap := &eligibility.Snapshot{
        Now:         time.Now().UTC(),
        UserID:      userID,
        Submissions: make(map[uint64][]model.QuestionnaireSubmission),
    }

    ev, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEventNotFound
        }
        return nil, err
    }
    snap.Event = ev

    if err := r.loadTiers(ctx, snap, eventID); err != nil {
        return nil, err
    }
    if err := r.loadOrganizationFacts(ctx, snap, ev.OrganizationID, userID); err != nil {
        return nil, err
    }
    if err := r.loadInvitation(ctx, snap, eventID, userID); err != nil {
        return nil, err
    }
    if err := r.loadQuestionnaires(ctx, snap, eventID, userID); err != nil {
        return nil, err
    }
    if err := r.loadParticipation(ctx, snap, eventID, userID); err != nil {
        return nil, err
    }
    return snap, nil
}

func (r *SnapshotRepo) loadTiers(ctx context.Context, snap *eligibility.Snapshot, eventID uint64) error {
    rows, err := r.db.QueryContext(ctx, `SELECT `+tierColumns+` FROM ticket_tiers WHERE event_id = ? ORDER BY id`, eventID)
    if err != nil {
        return err
    }
    defer rows.Close()
    var ptrs []*model.TicketTier
    for rows.Next() {
        t, err := scanTier(rows)
        if err != nil {
            return err
        }
        ptrs = append(ptrs, t)
    }
    if err := rows.Err(); err != nil {
        return err
    }
    if err := loadTierMemberships(ctx, r.db, ptrs); err != nil {
        return err
    }
    for _, t := range ptrs {
        snap.Tiers = append(snap.Tiers, *t)
    }
    return nil
}

func (r *SnapshotRepo) loadOrganizationFacts(ctx context.Context, snap *eligibility.Snapshot, orgID, userID uint64) error {
    if userID == 0 {
        return nil
    }
    const q = `SELECT
                   EXISTS(SELECT 1 FROM organizations WHERE id = ? AND owner_user_id = ?),
                   EXISTS(SELECT 1 FROM organization_staff WHERE organization_id = ? AND user_id = ?)`
    if err := r.db.QueryRowContext(ctx, q, orgID, userID, orgID, userID).Scan(&snap.IsOwner, &snap.IsStaff); err != nil {
        return err
    }
    const memberQ = `SELECT membership_tier_id FROM organization_members
                     WHERE organization_id = ? AND user_id = ?`
    var tierID sql.NullInt64
    err := r.db.QueryRowContext(ctx, memberQ, orgID, userID).Scan(&tierID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil
        }
        return err
    }
    snap.IsMember = true
    if tierID.Valid {
        v := uint64(tierID.Int64)
        snap.MembershipTierID = &v
    }
    return nil
}

func (r *SnapshotRepo) loadInvitation(ctx context.Context, snap *eligibility.Snapshot, eventID, userID uint64) error {
    if userID == 0 {
        return nil
    }
    inv, err := scanInvitation(r.db.QueryRowContext(ctx,
        `SELECT `+invitationColumns+` FROM event_invitations WHERE event_id = ? AND user_id = ?`,
        eventID, userID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil
        }
        return err
    }
    snap.Invitation = inv
    return nil
}

// loadQuestionnaires fetches the admission questionnaires bound to the
// event (directly or through its series) and, in a second query, the
// user's submissions for all of them, newest first, keyed by
// questionnaire id so gate evaluation is a map lookup.
func (r *SnapshotRepo) loadQuestionnaires(ctx context.Context, snap *eligibility.Snapshot, eventID, userID uint64) error {
    const q = `SELECT q.id, q.title, q.max_attempts, q.retake_cooldown_seconds
               FROM questionnaires q
               JOIN event_questionnaires eq ON eq.questionnaire_id = q.id
               WHERE eq.event_id = ?
               ORDER BY q.id`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var qn model.Questionnaire
        var cooldownSeconds int64
        if err := rows.Scan(&qn.ID, &qn.Title, &qn.MaxAttempts, &cooldownSeconds); err != nil {
            return err
        }
        qn.RetakeCooldown = time.Duration(cooldownSeconds) * time.Second
        snap.Questionnaires = append(snap.Questionnaires, qn)
    }
    if err := rows.Err(); err != nil {
        return err
    }
    if len(snap.Questionnaires) == 0 || userID == 0 {
        return nil
    }

    ids := make([]any, 0, len(snap.Questionnaires)+1)
    placeholders := make([]string, 0, len(snap.Questionnaires))
    for _, qn := range snap.Questionnaires {
        ids = append(ids, qn.ID)
        placeholders = append(placeholders, "?")
    }
    ids = append(ids, userID)
    subQ := `SELECT id, questionnaire_id, user_id, evaluation, submitted_at, evaluated_at
             FROM questionnaire_submissions
             WHERE questionnaire_id IN (` + strings.Join(placeholders, ",") + `) AND user_id = ?
             ORDER BY submitted_at DESC`
    srows, err := r.db.QueryContext(ctx, subQ, ids...)
    if err != nil {
        return err
    }
    defer srows.Close()
    for srows.Next() {
        var sub model.QuestionnaireSubmission
        var evaluatedAt sql.NullTime
        if err := srows.Scan(&sub.ID, &sub.QuestionnaireID, &sub.UserID, &sub.Evaluation, &sub.SubmittedAt, &evaluatedAt); err != nil {
            return err
        }
        if evaluatedAt.Valid {
            t := evaluatedAt.Time.UTC()
            sub.EvaluatedAt = &t
        }
        snap.Submissions[sub.QuestionnaireID] = append(snap.Submissions[sub.QuestionnaireID], sub)
    }
    return srows.Err()
}

func (r *SnapshotRepo) loadParticipation(ctx context.Context, snap *eligibility.Snapshot, eventID, userID uint64) error {
    if userID != 0 {
        const tq = `SELECT ` + ticketColumns + ` FROM tickets
                    WHERE event_id = ? AND user_id = ? AND status <> ?
                    ORDER BY created_at`
        rows, err := r.db.QueryContext(ctx, tq, eventID, userID, model.TicketStatusCancelled)
        if err != nil {
            return err
        }
        defer rows.Close()
        for rows.Next() {
            t, err := scanTicket(rows)
            if err != nil {
                return err
            }
            snap.UserTickets = append(snap.UserTickets, *t)
        }
        if err := rows.Err(); err != nil {
            return err
        }

        const rq = `SELECT id, event_id, user_id, answer, created_at, updated_at
                    FROM event_rsvps WHERE event_id = ? AND user_id = ?`
        var rsvp model.EventRSVP
        err = r.db.QueryRowContext(ctx, rq, eventID, userID).Scan(
            &rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt,
        )
        if err == nil {
            snap.RSVP = &rsvp
        } else if !errors.Is(err, sql.ErrNoRows) {
            return err
        }
    }

    return r.db.QueryRowContext(ctx, attendeeCountQuery,
        eventID, model.TicketStatusCancelled, eventID, model.RSVPYes,
    ).Scan(&snap.AttendeeCount)
}
