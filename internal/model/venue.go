package model

import "time"

// Venue represents a row in the `venues` table.  A venue is owned by an
// organization and groups sectors, which in turn group seats.
//
// Fields:
//  ID             – primary key identifier.
//  OrganizationID – owning organization.
//  Name           – display name of the venue.
//  Address        – free-form street address.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Venue struct {
    ID             uint64    // venues.id
    OrganizationID uint64    // venues.organization_id
    Name           string    // venues.name
    Address        string    // venues.address
    CreatedAt      time.Time // venues.created_at
    UpdatedAt      time.Time // venues.updated_at
}

// VenueSector represents a row in the `venue_sectors` table.  Sector
// names are unique within a venue.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – owning venue.
//  Name      – sector name (e.g. "Balcony", "Floor A").
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type VenueSector struct {
    ID        uint64    // venue_sectors.id
    VenueID   uint64    // venue_sectors.venue_id
    Name      string    // venue_sectors.name
    CreatedAt time.Time // venue_sectors.created_at
    UpdatedAt time.Time // venue_sectors.updated_at
}

// VenueSeat represents a row in the `venue_seats` table.  A seat label
// is unique within its sector.  A seat is exclusively claimed by at
// most one non-cancelled ticket for an event that has not yet ended;
// past-event and cancelled tickets do not block reuse.
//
// Fields:
//  ID        – primary key identifier.
//  SectorID  – owning sector.
//  Label     – seat label, unique within the sector (e.g. "A-12").
//  PosX      – optional horizontal position for seat-map rendering.
//  PosY      – optional vertical position for seat-map rendering.
//  IsActive  – soft availability flag; inactive seats are never assigned.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type VenueSeat struct {
    ID        uint64    // venue_seats.id
    SectorID  uint64    // venue_seats.sector_id
    Label     string    // venue_seats.label
    PosX      *int32    // venue_seats.pos_x (nullable)
    PosY      *int32    // venue_seats.pos_y (nullable)
    IsActive  bool      // venue_seats.is_active
    CreatedAt time.Time // venue_seats.created_at
    UpdatedAt time.Time // venue_seats.updated_at
}
