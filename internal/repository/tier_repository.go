package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// TierRepo provides CRUD operations for ticket tiers and their
// membership-tier restrictions.  The quantity_sold counter is never
// written here; only the allocation store mutates it.
type TierRepo struct {
    db *sql.DB
}

// NewTierRepo returns a new TierRepo bound to the given database.
func NewTierRepo(db *sql.DB) *TierRepo { return &TierRepo{db: db} }

const tierColumns = `id, event_id, name, visibility, purchasable_by, payment_method,
       price_cents, total_quantity, quantity_sold, sales_start_at, sales_end_at,
       max_tickets_per_user, seat_mode, venue_sector_id, created_at, updated_at`

func scanTier(row interface{ Scan(...any) error }) (*model.TicketTier, error) {
    var t model.TicketTier
    var totalQty, maxPerUser, sectorID sql.NullInt64
    var salesStart, salesEnd sql.NullTime
    err := row.Scan(
        &t.ID, &t.EventID, &t.Name, &t.Visibility, &t.PurchasableBy, &t.PaymentMethod,
        &t.PriceCents, &totalQty, &t.QuantitySold, &salesStart, &salesEnd,
        &maxPerUser, &t.SeatMode, &sectorID, &t.CreatedAt, &t.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if totalQty.Valid {
        v := uint32(totalQty.Int64)
        t.TotalQuantity = &v
    }
    if maxPerUser.Valid {
        v := uint32(maxPerUser.Int64)
        t.MaxTicketsPerUser = &v
    }
    if sectorID.Valid {
        v := uint64(sectorID.Int64)
        t.VenueSectorID = &v
    }
    if salesStart.Valid {
        s := salesStart.Time.UTC()
        t.SalesStartAt = &s
    }
    if salesEnd.Valid {
        s := salesEnd.Time.UTC()
        t.SalesEndAt = &s
    }
    return &t, nil
}

// Create inserts a tier and its membership-tier restrictions.  On
// success the tier's ID is populated.
func (r *TierRepo) Create(ctx context.Context, t *model.TicketTier) error {
    const q = `INSERT INTO ticket_tiers
        (event_id, name, visibility, purchasable_by, payment_method, price_cents,
         total_quantity, sales_start_at, sales_end_at, max_tickets_per_user,
         seat_mode, venue_sector_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        t.EventID, t.Name, t.Visibility, t.PurchasableBy, t.PaymentMethod, t.PriceCents,
        nullableUint32(t.TotalQuantity), nullableTime(t.SalesStartAt), nullableTime(t.SalesEndAt),
        nullableUint32(t.MaxTicketsPerUser), t.SeatMode, nullableUint64(t.VenueSectorID),
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    if len(t.MembershipTierIDs) > 0 {
        query := `INSERT INTO ticket_tier_memberships (tier_id, membership_tier_id) VALUES `
        args := make([]any, 0, len(t.MembershipTierIDs)*2)
        for i, mid := range t.MembershipTierIDs {
            if i > 0 {
                query += ","
            }
            query += "(?, ?)"
            args = append(args, t.ID, mid)
        }
        if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    return nil
}

// GetByID retrieves a tier by id, including membership restrictions.
// Returns ErrTierNotFound when no row exists.
func (r *TierRepo) GetByID(ctx context.Context, id uint64) (*model.TicketTier, error) {
    const q = `SELECT ` + tierColumns + ` FROM ticket_tiers WHERE id = ?`
    t, err := scanTier(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTierNotFound
        }
        return nil, err
    }
    if err := loadTierMemberships(ctx, r.db, []*model.TicketTier{t}); err != nil {
        return nil, err
    }
    return t, nil
}

// ListByEvent returns all tiers of an event ordered by id, including
// membership restrictions.
func (r *TierRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketTier, error) {
    const q = `SELECT ` + tierColumns + ` FROM ticket_tiers WHERE event_id = ? ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ptrs []*model.TicketTier
    for rows.Next() {
        t, err := scanTier(rows)
        if err != nil {
            return nil, err
        }
        ptrs = append(ptrs, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := loadTierMemberships(ctx, r.db, ptrs); err != nil {
        return nil, err
    }
    tiers := make([]model.TicketTier, 0, len(ptrs))
    for _, t := range ptrs {
        tiers = append(tiers, *t)
    }
    return tiers, nil
}

// loadTierMemberships populates MembershipTierIDs for all given tiers
// in a single query.  Shared with the snapshot loader.
func loadTierMemberships(ctx context.Context, db *sql.DB, tiers []*model.TicketTier) error {
    if len(tiers) == 0 {
        return nil
    }
    index := make(map[uint64]*model.TicketTier, len(tiers))
    ids := make([]any, 0, len(tiers))
    placeholders := make([]string, 0, len(tiers))
    for _, t := range tiers {
        index[t.ID] = t
        ids = append(ids, t.ID)
        placeholders = append(placeholders, "?")
    }
    query := `SELECT tier_id, membership_tier_id FROM ticket_tier_memberships
              WHERE tier_id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := db.QueryContext(ctx, query, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var tierID, membershipID uint64
        if err := rows.Scan(&tierID, &membershipID); err != nil {
            return err
        }
        if t, ok := index[tierID]; ok {
            t.MembershipTierIDs = append(t.MembershipTierIDs, membershipID)
        }
    }
    return rows.Err()
}
