package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// openEvent returns a public OPEN ticketed event running around testNow.
func openEvent() *model.Event {
	return &model.Event{
		ID:             1,
		OrganizationID: 10,
		Title:          "Launch Party",
		Status:         model.EventStatusOpen,
		Visibility:     model.EventVisibilityPublic,
		RequiresTicket: true,
		StartsAt:       testNow.Add(24 * time.Hour),
		EndsAt:         testNow.Add(28 * time.Hour),
	}
}

func snapshot(ev *model.Event) *Snapshot {
	return &Snapshot{
		Now:         testNow,
		UserID:      42,
		Event:       ev,
		Tiers:       []model.TicketTier{{ID: 1, EventID: ev.ID, PaymentMethod: model.PaymentFree}},
		Submissions: map[uint64][]model.QuestionnaireSubmission{},
	}
}

func TestChainAllowsOpenPublicEvent(t *testing.T) {
	d := DefaultChain().Decide(snapshot(openEvent()), false)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestChainIsIdempotent(t *testing.T) {
	s := snapshot(openEvent())
	s.Event.MaxAttendees = 10
	s.AttendeeCount = 10

	first := DefaultChain().Decide(s, false)
	second := DefaultChain().Decide(s, false)
	assert.Equal(t, first, second)
	assert.False(t, second.Allowed)
}

func TestChainBypassSkipsEveryGate(t *testing.T) {
	ev := openEvent()
	ev.Status = model.EventStatusClosed
	ev.Visibility = model.EventVisibilityPrivate
	s := snapshot(ev)

	d := DefaultChain().Decide(s, true)
	assert.True(t, d.Allowed)
}

func TestPrivilegedAccessWinsOverEveryDenial(t *testing.T) {
	ev := openEvent()
	ev.Visibility = model.EventVisibilityPrivate
	ev.MaxAttendees = 1
	s := snapshot(ev)
	s.AttendeeCount = 1
	s.IsStaff = true

	d := DefaultChain().Decide(s, false)
	assert.True(t, d.Allowed)
}

func TestEventStatusGate(t *testing.T) {
	t.Run("finished event", func(t *testing.T) {
		ev := openEvent()
		ev.StartsAt = testNow.Add(-48 * time.Hour)
		ev.EndsAt = testNow.Add(-24 * time.Hour)
		d := DefaultChain().Decide(snapshot(ev), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonEventFinished, d.Reason)
	})
	t.Run("draft event", func(t *testing.T) {
		ev := openEvent()
		ev.Status = model.EventStatusDraft
		d := DefaultChain().Decide(snapshot(ev), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonEventNotOpen, d.Reason)
		assert.Equal(t, NextStepWaitForOpen, d.NextStep)
	})
	t.Run("status beats visibility in chain order", func(t *testing.T) {
		ev := openEvent()
		ev.Status = model.EventStatusClosed
		ev.Visibility = model.EventVisibilityPrivate
		d := DefaultChain().Decide(snapshot(ev), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonEventNotOpen, d.Reason)
	})
}

func TestRSVPDeadlineGate(t *testing.T) {
	deadline := testNow.Add(-time.Hour)

	rsvpEvent := func() *model.Event {
		ev := openEvent()
		ev.RequiresTicket = false
		ev.RSVPDeadline = &deadline
		return ev
	}

	t.Run("past deadline denies", func(t *testing.T) {
		d := DefaultChain().Decide(snapshot(rsvpEvent()), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonDeadlinePassed, d.Reason)
	})
	t.Run("ticketed events ignore the deadline", func(t *testing.T) {
		ev := rsvpEvent()
		ev.RequiresTicket = true
		d := DefaultChain().Decide(snapshot(ev), false)
		assert.True(t, d.Allowed)
	})
	t.Run("invitation waives the deadline", func(t *testing.T) {
		s := snapshot(rsvpEvent())
		s.Invitation = &model.EventInvitation{EventID: 1, UserID: 42, WaiveRSVPDeadline: true}
		d := DefaultChain().Decide(s, false)
		assert.True(t, d.Allowed)
	})
}

func TestInvitationGate(t *testing.T) {
	ev := openEvent()
	ev.Visibility = model.EventVisibilityPrivate

	t.Run("private event requires invitation", func(t *testing.T) {
		d := DefaultChain().Decide(snapshot(ev), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonRequiresInvitation, d.Reason)
		assert.Equal(t, NextStepRequestInvitation, d.NextStep)
	})
	t.Run("any invitation satisfies it", func(t *testing.T) {
		s := snapshot(ev)
		s.Invitation = &model.EventInvitation{EventID: 1, UserID: 42}
		d := DefaultChain().Decide(s, false)
		assert.True(t, d.Allowed)
	})
}

func TestMembershipGate(t *testing.T) {
	ev := openEvent()
	ev.Visibility = model.EventVisibilityMembersOnly

	t.Run("non-member denied", func(t *testing.T) {
		d := DefaultChain().Decide(snapshot(ev), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonMembersOnly, d.Reason)
		assert.Equal(t, NextStepBecomeMember, d.NextStep)
	})
	t.Run("member allowed", func(t *testing.T) {
		s := snapshot(ev)
		s.IsMember = true
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
	t.Run("waiving invitation allowed", func(t *testing.T) {
		s := snapshot(ev)
		s.Invitation = &model.EventInvitation{EventID: 1, UserID: 42, WaiveMembership: true}
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
}

func TestQuestionnaireGate(t *testing.T) {
	withQuestionnaire := func(q model.Questionnaire, subs ...model.QuestionnaireSubmission) *Snapshot {
		s := snapshot(openEvent())
		s.Questionnaires = []model.Questionnaire{q}
		if len(subs) > 0 {
			s.Submissions[q.ID] = subs
		}
		return s
	}
	evaluatedAt := testNow.Add(-30 * time.Minute)

	t.Run("no submission", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7}), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonQuestionnaireMissing, d.Reason)
		assert.Equal(t, NextStepCompleteQuestionnaire, d.NextStep)
		assert.Equal(t, []uint64{7}, d.QuestionnaireIDs)
	})
	t.Run("pending review", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7},
			model.QuestionnaireSubmission{QuestionnaireID: 7, Evaluation: model.EvaluationPending, SubmittedAt: testNow},
		), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonQuestionnairePending, d.Reason)
		assert.Equal(t, NextStepAwaitReview, d.NextStep)
	})
	t.Run("approved passes", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7},
			model.QuestionnaireSubmission{QuestionnaireID: 7, Evaluation: model.EvaluationApproved, SubmittedAt: testNow},
		), false)
		assert.True(t, d.Allowed)
	})
	t.Run("rejected with attempts left is reported as missing", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7, MaxAttempts: 3},
			model.QuestionnaireSubmission{QuestionnaireID: 7, Evaluation: model.EvaluationRejected, SubmittedAt: testNow, EvaluatedAt: &evaluatedAt},
		), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonQuestionnaireMissing, d.Reason)
	})
	t.Run("rejected with attempts exhausted is final", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7, MaxAttempts: 1},
			model.QuestionnaireSubmission{QuestionnaireID: 7, Evaluation: model.EvaluationRejected, SubmittedAt: testNow, EvaluatedAt: &evaluatedAt},
		), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonQuestionnaireFailed, d.Reason)
		assert.Empty(t, d.NextStep)
	})
	t.Run("rejected during cooldown carries retry_on", func(t *testing.T) {
		d := DefaultChain().Decide(withQuestionnaire(model.Questionnaire{ID: 7, RetakeCooldown: time.Hour},
			model.QuestionnaireSubmission{QuestionnaireID: 7, Evaluation: model.EvaluationRejected, SubmittedAt: testNow, EvaluatedAt: &evaluatedAt},
		), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonQuestionnaireFailed, d.Reason)
		assert.Equal(t, NextStepRetryLater, d.NextStep)
		require.NotNil(t, d.RetryOn)
		assert.Equal(t, evaluatedAt.Add(time.Hour), *d.RetryOn)
	})
	t.Run("invitation waives questionnaires", func(t *testing.T) {
		s := withQuestionnaire(model.Questionnaire{ID: 7})
		s.Invitation = &model.EventInvitation{EventID: 1, UserID: 42, WaiveQuestionnaire: true}
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
}

func TestAvailabilityGate(t *testing.T) {
	fullEvent := func() *Snapshot {
		ev := openEvent()
		ev.MaxAttendees = 100
		s := snapshot(ev)
		s.AttendeeCount = 100
		return s
	}

	t.Run("full event denies", func(t *testing.T) {
		d := DefaultChain().Decide(fullEvent(), false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonEventFull, d.Reason)
		assert.Empty(t, d.NextStep)
	})
	t.Run("full event with waitlist suggests joining", func(t *testing.T) {
		s := fullEvent()
		s.Event.WaitlistOpen = true
		d := DefaultChain().Decide(s, false)
		require.False(t, d.Allowed)
		assert.Equal(t, NextStepJoinWaitlist, d.NextStep)
	})
	t.Run("member of a full event is still denied", func(t *testing.T) {
		// Membership grants access class, not capacity.
		s := fullEvent()
		s.Event.Visibility = model.EventVisibilityMembersOnly
		s.IsMember = true
		d := DefaultChain().Decide(s, false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonEventFull, d.Reason)
	})
	t.Run("existing attendee is not turned away", func(t *testing.T) {
		s := fullEvent()
		s.UserTickets = []model.Ticket{{EventID: 1, Status: model.TicketStatusActive}}
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
	t.Run("invitation overriding the cap passes", func(t *testing.T) {
		s := fullEvent()
		s.Invitation = &model.EventInvitation{EventID: 1, UserID: 42, OverrideMaxAttendees: true}
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
}

func TestSalesWindowGate(t *testing.T) {
	past := testNow.Add(-2 * time.Hour)
	justBefore := testNow.Add(-time.Hour)

	t.Run("all windows closed", func(t *testing.T) {
		s := snapshot(openEvent())
		s.Tiers = []model.TicketTier{
			{ID: 1, EventID: 1, SalesStartAt: &past, SalesEndAt: &justBefore},
		}
		d := DefaultChain().Decide(s, false)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonNoTicketsOnSale, d.Reason)
	})
	t.Run("one open window suffices", func(t *testing.T) {
		s := snapshot(openEvent())
		s.Tiers = []model.TicketTier{
			{ID: 1, EventID: 1, SalesStartAt: &past, SalesEndAt: &justBefore},
			{ID: 2, EventID: 1},
		}
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
	t.Run("rsvp events have no sales window", func(t *testing.T) {
		ev := openEvent()
		ev.RequiresTicket = false
		s := snapshot(ev)
		s.Tiers = nil
		assert.True(t, DefaultChain().Decide(s, false).Allowed)
	})
}

func TestAlreadyAttending(t *testing.T) {
	t.Run("ticketed", func(t *testing.T) {
		s := snapshot(openEvent())
		assert.False(t, s.AlreadyAttending())
		s.UserTickets = []model.Ticket{{Status: model.TicketStatusActive}}
		assert.True(t, s.AlreadyAttending())
	})
	t.Run("rsvp", func(t *testing.T) {
		ev := openEvent()
		ev.RequiresTicket = false
		s := snapshot(ev)
		s.RSVP = &model.EventRSVP{Answer: model.RSVPMaybe}
		assert.False(t, s.AlreadyAttending())
		s.RSVP = &model.EventRSVP{Answer: model.RSVPYes}
		assert.True(t, s.AlreadyAttending())
	})
}
