package eligibility

import (
    "context"
    "time"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// Snapshot carries every fact needed to evaluate the gate chain for
// one (user, event) pair.  It is produced by a Loader in a single
// batched read and is treated as immutable afterwards: gates only ever
// read from it.  Capacity decisions are NOT made from a snapshot — the
// counts here are advisory and may be stale by the time an allocation
// transaction runs.
type Snapshot struct {
    Now    time.Time // evaluation instant, fixed at load time
    UserID uint64    // viewer; 0 for anonymous callers

    Event *model.Event       // the event under evaluation
    Tiers []model.TicketTier // all tiers of the event, including off-sale ones

    IsOwner bool // viewer owns the organization
    IsStaff bool // viewer is organization staff
    IsMember bool
    MembershipTierID *uint64 // viewer's membership tier, when any

    Invitation *model.EventInvitation // viewer's invitation, nil when none

    // Questionnaires lists the admission questionnaires bound to the
    // event or its series.  Submissions maps questionnaire id to that
    // user's submissions, newest first, so gate evaluation is an O(1)
    // map lookup per questionnaire.
    Questionnaires []model.Questionnaire
    Submissions    map[uint64][]model.QuestionnaireSubmission

    UserTickets []model.Ticket   // viewer's non-cancelled tickets for this event
    RSVP        *model.EventRSVP // viewer's RSVP row, nil when none

    // AttendeeCount is the number of distinct active participants:
    // ticket-holding users for ticketed events, "YES" RSVPs otherwise.
    AttendeeCount uint32
}

// Loader produces participation snapshots.  Implementations must issue
// their reads as one batch; the chain never goes back to the loader
// during evaluation.
type Loader interface {
    LoadParticipationSnapshot(ctx context.Context, userID, eventID uint64) (*Snapshot, error)
}

// AlreadyAttending reports whether the viewer is already counted among
// the event's attendees (holds a non-cancelled ticket, or answered
// "YES" for RSVP events).
func (s *Snapshot) AlreadyAttending() bool {
    if s.Event != nil && s.Event.RequiresTicket {
        return len(s.UserTickets) > 0
    }
    return s.RSVP != nil && s.RSVP.Answer == model.RSVPYes
}

// InvitationWaives reports whether the viewer holds an invitation with
// the given flag selector set.
func (s *Snapshot) InvitationWaives(flag func(*model.EventInvitation) bool) bool {
    return s.Invitation != nil && flag(s.Invitation)
}
