package eligibility

import (
    "github.com/iliyamo/event-ticketing/internal/model"
)

// Gate is one independent eligibility check.  Evaluate returns the
// gate's decision and true when the gate has a definitive opinion;
// (zero Decision, false) means "no opinion, continue down the chain".
type Gate interface {
    Evaluate(s *Snapshot) (Decision, bool)
}

// PrivilegedAccessGate allows organization owners and staff
// immediately, before any other gate runs.
type PrivilegedAccessGate struct{}

// Evaluate implements Gate.
func (PrivilegedAccessGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.IsOwner || s.IsStaff {
        return Allow(), true
    }
    return Decision{}, false
}

// EventStatusGate denies participation for events that have ended or
// are not currently open.
type EventStatusGate struct{}

// Evaluate implements Gate.
func (EventStatusGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.Event.HasEnded(s.Now) {
        return Deny(ReasonEventFinished, ""), true
    }
    if s.Event.Status != model.EventStatusOpen {
        return Deny(ReasonEventNotOpen, NextStepWaitForOpen), true
    }
    return Decision{}, false
}

// RSVPDeadlineGate applies only to non-ticketed events.  Once the RSVP
// deadline has passed, only invitations that waive the deadline keep
// participation open.
type RSVPDeadlineGate struct{}

// Evaluate implements Gate.
func (RSVPDeadlineGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.Event.RequiresTicket || s.Event.RSVPDeadline == nil {
        return Decision{}, false
    }
    if !s.Now.After(*s.Event.RSVPDeadline) {
        return Decision{}, false
    }
    if s.InvitationWaives(func(inv *model.EventInvitation) bool { return inv.WaiveRSVPDeadline }) {
        return Decision{}, false
    }
    return Deny(ReasonDeadlinePassed, ""), true
}

// InvitationGate requires an invitation for private events.
type InvitationGate struct{}

// Evaluate implements Gate.
func (InvitationGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.Event.Visibility != model.EventVisibilityPrivate {
        return Decision{}, false
    }
    if s.Invitation == nil {
        return Deny(ReasonRequiresInvitation, NextStepRequestInvitation), true
    }
    return Decision{}, false
}

// MembershipGate requires organization membership for members-only
// events unless an invitation waives the requirement.
type MembershipGate struct{}

// Evaluate implements Gate.
func (MembershipGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.Event.Visibility != model.EventVisibilityMembersOnly {
        return Decision{}, false
    }
    if s.InvitationWaives(func(inv *model.EventInvitation) bool { return inv.WaiveMembership }) {
        return Decision{}, false
    }
    if !s.IsMember && !s.IsStaff {
        return Deny(ReasonMembersOnly, NextStepBecomeMember), true
    }
    return Decision{}, false
}

// QuestionnaireGate checks every admission questionnaire bound to the
// event.  Submissions are looked up in the snapshot's pre-fetched map;
// no reads happen here.  A rejected submission whose retake policy is
// exhausted (attempts used up, or cooldown still running) is a final
// failure; a rejected submission that may still be retaken is reported
// as missing so the user is told to complete the questionnaire again.
type QuestionnaireGate struct{}

// Evaluate implements Gate.
func (QuestionnaireGate) Evaluate(s *Snapshot) (Decision, bool) {
    if len(s.Questionnaires) == 0 {
        return Decision{}, false
    }
    if s.InvitationWaives(func(inv *model.EventInvitation) bool { return inv.WaiveQuestionnaire }) {
        return Decision{}, false
    }
    for _, q := range s.Questionnaires {
        subs := s.Submissions[q.ID]
        if len(subs) == 0 {
            d := Deny(ReasonQuestionnaireMissing, NextStepCompleteQuestionnaire)
            d.QuestionnaireIDs = []uint64{q.ID}
            return d, true
        }
        latest := subs[0]
        switch latest.Evaluation {
        case model.EvaluationApproved:
            continue
        case model.EvaluationPending:
            d := Deny(ReasonQuestionnairePending, NextStepAwaitReview)
            d.QuestionnaireIDs = []uint64{q.ID}
            return d, true
        case model.EvaluationRejected:
            if q.MaxAttempts > 0 && uint32(len(subs)) >= q.MaxAttempts {
                d := Deny(ReasonQuestionnaireFailed, "")
                d.QuestionnaireIDs = []uint64{q.ID}
                return d, true
            }
            if q.RetakeCooldown > 0 && latest.EvaluatedAt != nil {
                retryOn := latest.EvaluatedAt.Add(q.RetakeCooldown)
                if s.Now.Before(retryOn) {
                    d := Deny(ReasonQuestionnaireFailed, NextStepRetryLater)
                    d.RetryOn = &retryOn
                    d.QuestionnaireIDs = []uint64{q.ID}
                    return d, true
                }
            }
            // Retake is still possible: report as missing so the user
            // completes the questionnaire again.
            d := Deny(ReasonQuestionnaireMissing, NextStepCompleteQuestionnaire)
            d.QuestionnaireIDs = []uint64{q.ID}
            return d, true
        }
    }
    return Decision{}, false
}

// AvailabilityGate denies participation once the event's attendee cap
// is reached.  Users who already attend are not turned away, and an
// invitation may override the cap entirely.
type AvailabilityGate struct{}

// Evaluate implements Gate.
func (AvailabilityGate) Evaluate(s *Snapshot) (Decision, bool) {
    if s.Event.MaxAttendees == 0 {
        return Decision{}, false
    }
    if s.InvitationWaives(func(inv *model.EventInvitation) bool { return inv.OverrideMaxAttendees }) {
        return Decision{}, false
    }
    if s.AlreadyAttending() {
        return Decision{}, false
    }
    if s.AttendeeCount >= s.Event.MaxAttendees {
        next := NextStep("")
        if s.Event.WaitlistOpen {
            next = NextStepJoinWaitlist
        }
        return Deny(ReasonEventFull, next), true
    }
    return Decision{}, false
}

// SalesWindowGate applies only to ticketed events: when every tier's
// sales window excludes the evaluation instant there is nothing the
// user could buy.
type SalesWindowGate struct{}

// Evaluate implements Gate.
func (SalesWindowGate) Evaluate(s *Snapshot) (Decision, bool) {
    if !s.Event.RequiresTicket {
        return Decision{}, false
    }
    for i := range s.Tiers {
        if s.Tiers[i].OnSale(s.Now) {
            return Decision{}, false
        }
    }
    return Deny(ReasonNoTicketsOnSale, NextStepWaitForOpen), true
}
