package model

import "time"

// RSVP answers as stored in event_rsvps.answer.
const (
    RSVPYes   = "YES"
    RSVPNo    = "NO"
    RSVPMaybe = "MAYBE"
)

// EventRSVP represents a row in the `event_rsvps` table.  There is at
// most one row per (event, user) pair; answering again updates the
// existing row.  RSVPs are only used for events that do not require
// tickets, and only "YES" answers count toward attendee capacity.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event being answered.
//  UserID    – responding user.
//  Answer    – one of the RSVP* constants.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of the most recent answer.
type EventRSVP struct {
    ID        uint64    // event_rsvps.id
    EventID   uint64    // event_rsvps.event_id
    UserID    uint64    // event_rsvps.user_id
    Answer    string    // event_rsvps.answer
    CreatedAt time.Time // event_rsvps.created_at
    UpdatedAt time.Time // event_rsvps.updated_at
}
