// Package eligibility implements the ordered chain of gates that
// decides whether a user may participate in an event.  Evaluation is a
// pure function over a pre-loaded Snapshot: no gate has access to a
// data-access handle, so no queries can occur while deciding.
package eligibility

import (
    "fmt"
    "time"
)

// Reason identifies why participation was denied.  Values are stable
// and safe to expose to API clients.
type Reason string

const (
    ReasonEventFinished        Reason = "event_finished"
    ReasonEventNotOpen         Reason = "event_not_open"
    ReasonDeadlinePassed       Reason = "rsvp_deadline_passed"
    ReasonRequiresInvitation   Reason = "requires_invitation"
    ReasonMembersOnly          Reason = "members_only"
    ReasonQuestionnaireMissing Reason = "questionnaire_missing"
    ReasonQuestionnairePending Reason = "questionnaire_pending_review"
    ReasonQuestionnaireFailed  Reason = "questionnaire_failed"
    ReasonEventFull            Reason = "event_full"
    ReasonNoTicketsOnSale      Reason = "no_tickets_on_sale"
)

// NextStep is a remediation hint attached to a denial so that clients
// can render a specific call to action.
type NextStep string

const (
    NextStepWaitForOpen           NextStep = "wait_for_open"
    NextStepRequestInvitation     NextStep = "request_invitation"
    NextStepBecomeMember          NextStep = "become_member"
    NextStepCompleteQuestionnaire NextStep = "complete_questionnaire"
    NextStepAwaitReview           NextStep = "await_review"
    NextStepRetryLater            NextStep = "retry_later"
    NextStepJoinWaitlist          NextStep = "join_waitlist"
)

// Decision is the outcome of evaluating the gate chain.  When Allowed
// is false the remaining fields describe the denial; RetryOn and
// QuestionnaireIDs are populated only by the questionnaire gate.
type Decision struct {
    Allowed          bool       `json:"allowed"`
    Reason           Reason     `json:"reason,omitempty"`
    NextStep         NextStep   `json:"next_step,omitempty"`
    RetryOn          *time.Time `json:"retry_on,omitempty"`
    QuestionnaireIDs []uint64   `json:"questionnaire_ids,omitempty"`
}

// Allow returns the positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denial with the given reason and next step.
func Deny(reason Reason, next NextStep) Decision {
    return Decision{Reason: reason, NextStep: next}
}

// DeniedError wraps a negative Decision so that service entry points
// can return it through the error channel while keeping the structured
// denial data intact for the handler layer.
type DeniedError struct {
    Decision Decision
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
    return fmt.Sprintf("participation denied: %s", e.Decision.Reason)
}
