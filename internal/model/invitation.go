package model

import "time"

// EventInvitation represents a row in the `event_invitations` table.
// An invitation grants one user special dispensations for one event.
// Each Waive*/Override* flag relaxes exactly one eligibility or
// capacity rule; an invitation with all flags false still satisfies
// the invitation requirement of private events.
//
// Fields:
//  ID                   – primary key identifier.
//  EventID              – event the invitation applies to.
//  UserID               – invited user.
//  TierID               – optional tier binding; nil means any tier.
//  WaiveMembership      – skip the members-only requirement.
//  WaiveQuestionnaire   – skip admission questionnaires.
//  WaivePurchase        – ticket is issued without payment.
//  WaiveRSVPDeadline    – RSVP accepted after the deadline.
//  OverrideMaxAttendees – ignore the event attendee cap for this user.
//  CreatedAt            – timestamp of creation.
type EventInvitation struct {
    ID                   uint64    // event_invitations.id
    EventID              uint64    // event_invitations.event_id
    UserID               uint64    // event_invitations.user_id
    TierID               *uint64   // event_invitations.tier_id (nullable)
    WaiveMembership      bool      // event_invitations.waive_membership
    WaiveQuestionnaire   bool      // event_invitations.waive_questionnaire
    WaivePurchase        bool      // event_invitations.waive_purchase
    WaiveRSVPDeadline    bool      // event_invitations.waive_rsvp_deadline
    OverrideMaxAttendees bool      // event_invitations.override_max_attendees
    CreatedAt            time.Time // event_invitations.created_at
}
