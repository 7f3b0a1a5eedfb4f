package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// VenueRepo provides CRUD operations for venues, sectors and seats.
// Seat claim state is never written here — it is derived from ticket
// rows — so the seat map queries are read-only.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// CreateVenue inserts a venue.  On success the ID is populated.
func (r *VenueRepo) CreateVenue(ctx context.Context, v *model.Venue) error {
    const q = `INSERT INTO venues (organization_id, name, address) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, v.OrganizationID, v.Name, v.Address)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)
    return nil
}

// GetVenue retrieves a venue by id.
func (r *VenueRepo) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, organization_id, name, address, created_at, updated_at
               FROM venues WHERE id = ?`
    var v model.Venue
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &v.ID, &v.OrganizationID, &v.Name, &v.Address, &v.CreatedAt, &v.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrVenueNotFound
        }
        return nil, err
    }
    return &v, nil
}

// CreateSector inserts a sector.  On success the ID is populated.
func (r *VenueRepo) CreateSector(ctx context.Context, s *model.VenueSector) error {
    const q = `INSERT INTO venue_sectors (venue_id, name) VALUES (?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.VenueID, s.Name)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// ListSectors returns all sectors of a venue ordered by name.
func (r *VenueRepo) ListSectors(ctx context.Context, venueID uint64) ([]model.VenueSector, error) {
    const q = `SELECT id, venue_id, name, created_at, updated_at
               FROM venue_sectors WHERE venue_id = ? ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    sectors := make([]model.VenueSector, 0)
    for rows.Next() {
        var s model.VenueSector
        if err := rows.Scan(&s.ID, &s.VenueID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        sectors = append(sectors, s)
    }
    return sectors, rows.Err()
}

// CreateSeatsBulk inserts multiple seats in a single statement.
// Passing an empty slice has no effect and returns nil.
func (r *VenueRepo) CreateSeatsBulk(ctx context.Context, seats []model.VenueSeat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO venue_seats (sector_id, label, pos_x, pos_y, is_active) VALUES `
    args := make([]any, 0, len(seats)*5)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, s.SectorID, s.Label, nullableInt32(s.PosX), nullableInt32(s.PosY), s.IsActive)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// GenerateGrid creates a rows x cols seat grid for a sector with
// labels "<rowLetter>-<number>" ("A-1" .. ), every seat active and
// positioned.  Rows beyond 26 wrap to double letters ("AA", "AB", ..).
func (r *VenueRepo) GenerateGrid(ctx context.Context, sectorID uint64, numRows, numCols int) error {
    seats := make([]model.VenueSeat, 0, numRows*numCols)
    for row := 0; row < numRows; row++ {
        for col := 1; col <= numCols; col++ {
            x, y := int32(col), int32(row+1)
            seats = append(seats, model.VenueSeat{
                SectorID: sectorID,
                Label:    fmt.Sprintf("%s-%d", rowLabel(row), col),
                PosX:     &x,
                PosY:     &y,
                IsActive: true,
            })
        }
    }
    return r.CreateSeatsBulk(ctx, seats)
}

// rowLabel converts a zero-based row index into a spreadsheet-style
// letter label.
func rowLabel(row int) string {
    label := ""
    for {
        label = string(rune('A'+row%26)) + label
        row = row/26 - 1
        if row < 0 {
            return label
        }
    }
}

// SectorVenueID resolves a sector to its owning venue.  Returns
// ErrVenueNotFound when the sector does not exist.
func (r *VenueRepo) SectorVenueID(ctx context.Context, sectorID uint64) (uint64, error) {
    const q = `SELECT venue_id FROM venue_sectors WHERE id = ?`
    var venueID uint64
    if err := r.db.QueryRowContext(ctx, q, sectorID).Scan(&venueID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return 0, ErrVenueNotFound
        }
        return 0, err
    }
    return venueID, nil
}

// SeatStatus pairs a seat with its derived claim state for display.
type SeatStatus struct {
    Seat    model.VenueSeat `json:"seat"`
    Claimed bool            `json:"claimed"`
}

// SeatMap returns every seat of a sector with its claim state.  This
// is an eventually-consistent display read: allocation decisions use
// the locked variants on the allocation store instead.
func (r *VenueRepo) SeatMap(ctx context.Context, sectorID uint64) ([]SeatStatus, error) {
    const q = `SELECT vs.id, vs.sector_id, vs.label, vs.pos_x, vs.pos_y, vs.is_active,
                      vs.created_at, vs.updated_at, ` + seatClaimedCondition + `
               FROM venue_seats vs
               WHERE vs.sector_id = ?
               ORDER BY vs.label`
    rows, err := r.db.QueryContext(ctx, q, model.TicketStatusCancelled, sectorID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    statuses := make([]SeatStatus, 0)
    for rows.Next() {
        var st SeatStatus
        var posX, posY sql.NullInt32
        if err := rows.Scan(
            &st.Seat.ID, &st.Seat.SectorID, &st.Seat.Label, &posX, &posY, &st.Seat.IsActive,
            &st.Seat.CreatedAt, &st.Seat.UpdatedAt, &st.Claimed,
        ); err != nil {
            return nil, err
        }
        if posX.Valid {
            v := posX.Int32
            st.Seat.PosX = &v
        }
        if posY.Valid {
            v := posY.Int32
            st.Seat.PosY = &v
        }
        statuses = append(statuses, st)
    }
    return statuses, rows.Err()
}

func nullableInt32(v *int32) any {
    if v == nil {
        return nil
    }
    return *v
}
