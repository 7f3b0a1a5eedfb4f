package model

import "time"

// Tier visibility classes as stored in ticket_tiers.visibility.
const (
    TierVisibilityPublic      = "PUBLIC"
    TierVisibilityMembersOnly = "MEMBERS_ONLY"
    TierVisibilityPrivate     = "PRIVATE"
    TierVisibilityStaffOnly   = "STAFF_ONLY"
)

// Tier purchasability classes as stored in ticket_tiers.purchasable_by.
const (
    TierPurchasablePublic            = "PUBLIC"
    TierPurchasableMembers           = "MEMBERS"
    TierPurchasableInvited           = "INVITED"
    TierPurchasableInvitedAndMembers = "INVITED_AND_MEMBERS"
)

// Payment methods as stored in ticket_tiers.payment_method.
const (
    PaymentFree      = "FREE"
    PaymentOffline   = "OFFLINE"
    PaymentAtTheDoor = "AT_THE_DOOR"
    PaymentOnline    = "ONLINE"
)

// Seat assignment modes as stored in ticket_tiers.seat_mode.
const (
    SeatModeNone       = "NONE"        // tickets carry no seat reference
    SeatModeRandom     = "RANDOM"      // seats picked from the bound sector at checkout
    SeatModeUserChoice = "USER_CHOICE" // each item must name an explicit seat
)

// TicketTier represents a row in the `ticket_tiers` table.  A tier is a
// purchasable ticket class scoped to one event with its own capacity,
// visibility, sales window and optional seat binding.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – owning event.
//  Name              – display name (e.g. "Early Bird").
//  Visibility        – one of the TierVisibility* constants.
//  PurchasableBy     – one of the TierPurchasable* constants.
//  PaymentMethod     – one of the Payment* constants.
//  PriceCents        – list price in cents; checkout may override it.
//  TotalQuantity     – capacity of the tier; nil means unlimited.
//  QuantitySold      – running counter of non-cancelled tickets sold.
//  SalesStartAt      – start of the sales window (nullable = open-ended).
//  SalesEndAt        – end of the sales window (nullable = open-ended).
//  MaxTicketsPerUser – per-tier override of the event per-user cap (nullable).
//  SeatMode          – one of the SeatMode* constants.
//  VenueSectorID     – sector the tier's seats come from; required unless SeatMode is NONE.
//  MembershipTierIDs – when non-empty, only members of these membership
//                      tiers may purchase (loaded from ticket_tier_memberships).
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type TicketTier struct {
    ID                uint64     // ticket_tiers.id
    EventID           uint64     // ticket_tiers.event_id
    Name              string     // ticket_tiers.name
    Visibility        string     // ticket_tiers.visibility
    PurchasableBy     string     // ticket_tiers.purchasable_by
    PaymentMethod     string     // ticket_tiers.payment_method
    PriceCents        uint32     // ticket_tiers.price_cents
    TotalQuantity     *uint32    // ticket_tiers.total_quantity (nullable)
    QuantitySold      uint32     // ticket_tiers.quantity_sold
    SalesStartAt      *time.Time // ticket_tiers.sales_start_at (nullable)
    SalesEndAt        *time.Time // ticket_tiers.sales_end_at (nullable)
    MaxTicketsPerUser *uint32    // ticket_tiers.max_tickets_per_user (nullable)
    SeatMode          string     // ticket_tiers.seat_mode
    VenueSectorID     *uint64    // ticket_tiers.venue_sector_id (nullable)
    MembershipTierIDs []uint64   // ticket_tier_memberships.membership_tier_id
    CreatedAt         time.Time  // ticket_tiers.created_at
    UpdatedAt         time.Time  // ticket_tiers.updated_at
}

// OnSale reports whether the tier's sales window includes the supplied
// instant.  A nil boundary leaves that side of the window open.
func (t *TicketTier) OnSale(now time.Time) bool {
    if t.SalesStartAt != nil && now.Before(*t.SalesStartAt) {
        return false
    }
    if t.SalesEndAt != nil && now.After(*t.SalesEndAt) {
        return false
    }
    return true
}

// EffectiveUserCap returns the per-user ticket cap for this tier: the
// tier override when set, otherwise the event-level cap.  The second
// result is false when no cap applies at all.
func (t *TicketTier) EffectiveUserCap(ev *Event) (uint32, bool) {
    if t.MaxTicketsPerUser != nil {
        return *t.MaxTicketsPerUser, true
    }
    if ev != nil && ev.MaxTicketsPerUser != nil {
        return *ev.MaxTicketsPerUser, true
    }
    return 0, false
}
