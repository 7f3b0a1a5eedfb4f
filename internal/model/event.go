package model

import "time"

// Event status values as stored in events.status.
const (
    EventStatusDraft     = "DRAFT"     // not yet visible to customers
    EventStatusOpen      = "OPEN"      // open for participation
    EventStatusClosed    = "CLOSED"    // participation closed by the organizer
    EventStatusCancelled = "CANCELLED" // event will not take place
)

// Event represents a row in the `events` table.  An event is owned by
// an organization and either requires tickets (participation happens
// through ticket tiers) or collects RSVPs directly.
//
// Fields:
//  ID                – primary key identifier.
//  OrganizationID    – owning organization.
//  Title             – display name of the event.
//  Status            – one of the EventStatus* constants.
//  Visibility        – PUBLIC, MEMBERS_ONLY or PRIVATE.
//  RequiresTicket    – true when participation is through ticket tiers.
//  MaxAttendees      – cap on distinct attendees; 0 means unlimited.
//  MaxTicketsPerUser – event-level per-user ticket cap; nil means unlimited.
//  RSVPDeadline      – last moment RSVPs are accepted (nullable, RSVP events only).
//  WaitlistOpen      – whether a waitlist accepts entries once the event is full.
//  VenueID           – optional venue binding for seated events.
//  StartsAt          – beginning of the event time window.
//  EndsAt            – end of the event time window.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Event struct {
    ID                uint64     // events.id
    OrganizationID    uint64     // events.organization_id
    Title             string     // events.title
    Status            string     // events.status
    Visibility        string     // events.visibility
    RequiresTicket    bool       // events.requires_ticket
    MaxAttendees      uint32     // events.max_attendees (0 = unlimited)
    MaxTicketsPerUser *uint32    // events.max_tickets_per_user (nullable)
    RSVPDeadline      *time.Time // events.rsvp_deadline (nullable)
    WaitlistOpen      bool       // events.waitlist_open
    VenueID           *uint64    // events.venue_id (nullable)
    StartsAt          time.Time  // events.starts_at
    EndsAt            time.Time  // events.ends_at
    CreatedAt         time.Time  // events.created_at
    UpdatedAt         time.Time  // events.updated_at
}

// Event visibility values as stored in events.visibility.
const (
    EventVisibilityPublic      = "PUBLIC"
    EventVisibilityMembersOnly = "MEMBERS_ONLY"
    EventVisibilityPrivate     = "PRIVATE"
)

// HasEnded reports whether the event's time window lies entirely in the
// past relative to the supplied instant.
func (e *Event) HasEnded(now time.Time) bool {
    return e.EndsAt.Before(now)
}
