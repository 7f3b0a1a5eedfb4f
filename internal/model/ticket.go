package model

import "time"

// Ticket status values as stored in tickets.status.  The state machine
// is PENDING -> ACTIVE -> CHECKED_IN, with PENDING/ACTIVE -> CANCELLED.
const (
    TicketStatusPending   = "PENDING"
    TicketStatusActive    = "ACTIVE"
    TicketStatusCheckedIn = "CHECKED_IN"
    TicketStatusCancelled = "CANCELLED"
)

// Ticket represents a row in the `tickets` table.  A ticket belongs to
// one event, one tier and one user (or a guest when UserID is nil) and
// optionally references a venue seat.
//
// Fields:
//  ID            – primary key identifier.
//  Serial        – opaque public identifier printed on the ticket.
//  EventID       – owning event.
//  TierID        – tier the ticket was issued from.
//  UserID        – holder of the ticket; nil for guest tickets.
//  GuestEmail    – contact address for guest tickets (nullable).
//  Status        – one of the TicketStatus* constants.
//  PriceCents    – price actually charged in cents.
//  VenueID       – venue reference when a seat is attached (nullable).
//  SectorID      – sector reference when a seat is attached (nullable).
//  SeatID        – seat claimed by this ticket (nullable).
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Ticket struct {
    ID         uint64    // tickets.id
    Serial     string    // tickets.serial
    EventID    uint64    // tickets.event_id
    TierID     uint64    // tickets.tier_id
    UserID     *uint64   // tickets.user_id (nullable)
    GuestEmail *string   // tickets.guest_email (nullable)
    Status     string    // tickets.status
    PriceCents uint32    // tickets.price_cents
    VenueID    *uint64   // tickets.venue_id (nullable)
    SectorID   *uint64   // tickets.sector_id (nullable)
    SeatID     *uint64   // tickets.seat_id (nullable)
    CreatedAt  time.Time // tickets.created_at
    UpdatedAt  time.Time // tickets.updated_at
}

// CountsTowardCapacity reports whether the ticket occupies capacity.
// Cancelled tickets never count; every other status does.
func (t *Ticket) CountsTowardCapacity() bool {
    return t.Status != TicketStatusCancelled
}
