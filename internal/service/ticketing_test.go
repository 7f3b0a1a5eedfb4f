package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/eligibility"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// fakeLoader serves a canned snapshot keyed by nothing; tests mutate
// the snapshot between calls.
type fakeLoader struct {
	snap *eligibility.Snapshot
	err  error
}

func (l *fakeLoader) LoadParticipationSnapshot(ctx context.Context, userID, eventID uint64) (*eligibility.Snapshot, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.snap, nil
}

func openSnapshot() *eligibility.Snapshot {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &eligibility.Snapshot{
		Now:    now,
		UserID: 42,
		Event: &model.Event{
			ID:             1,
			Status:         model.EventStatusOpen,
			Visibility:     model.EventVisibilityPublic,
			RequiresTicket: true,
			StartsAt:       now.Add(24 * time.Hour),
			EndsAt:         now.Add(28 * time.Hour),
		},
		Tiers: []model.TicketTier{{
			ID:            1,
			EventID:       1,
			PurchasableBy: model.TierPurchasablePublic,
			PaymentMethod: model.PaymentFree,
		}},
		Submissions: map[uint64][]model.QuestionnaireSubmission{},
	}
}

func newTestTicketing(loader eligibility.Loader) *Ticketing {
	return NewTicketing(loader, nil, nil, nil)
}

func TestCheckEligibilityReturnsDecision(t *testing.T) {
	loader := &fakeLoader{snap: openSnapshot()}
	svc := newTestTicketing(loader)

	snap, d, err := svc.CheckEligibility(context.Background(), 42, 1, false)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Same(t, loader.snap, snap)
}

func TestCheckEligibilityDeniedIsNotAnError(t *testing.T) {
	loader := &fakeLoader{snap: openSnapshot()}
	loader.snap.Event.Status = model.EventStatusClosed
	svc := newTestTicketing(loader)

	_, d, err := svc.CheckEligibility(context.Background(), 42, 1, false)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, eligibility.ReasonEventNotOpen, d.Reason)
}

func TestRSVPRejectsInvalidAnswer(t *testing.T) {
	svc := newTestTicketing(&fakeLoader{snap: openSnapshot()})
	_, err := svc.RSVP(context.Background(), 42, 1, "PERHAPS", false)
	assert.ErrorIs(t, err, ErrInvalidRSVPAnswer)
}

func TestRSVPRejectsTicketedEvents(t *testing.T) {
	svc := newTestTicketing(&fakeLoader{snap: openSnapshot()})
	_, err := svc.RSVP(context.Background(), 42, 1, model.RSVPYes, false)
	assert.ErrorIs(t, err, ErrRSVPNotApplicable)
}

func TestRSVPDeniedByChainWrapsDecision(t *testing.T) {
	loader := &fakeLoader{snap: openSnapshot()}
	loader.snap.Event.RequiresTicket = false
	loader.snap.Event.Visibility = model.EventVisibilityPrivate
	svc := newTestTicketing(loader)

	_, err := svc.RSVP(context.Background(), 42, 1, model.RSVPYes, false)
	var denied *eligibility.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, eligibility.ReasonRequiresInvitation, denied.Decision.Reason)
}

func TestTierPurchasableBy(t *testing.T) {
	tierID := uint64(1)
	otherTier := uint64(2)
	memTier := uint64(7)
	wrongMemTier := uint64(8)

	base := func() (*model.TicketTier, *eligibility.Snapshot) {
		snap := openSnapshot()
		return &snap.Tiers[0], snap
	}

	t.Run("public tier open to everyone", func(t *testing.T) {
		tier, snap := base()
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("public tier with membership allowlist", func(t *testing.T) {
		tier, snap := base()
		tier.MembershipTierIDs = []uint64{memTier}
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.IsMember = true
		snap.MembershipTierID = &wrongMemTier
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.MembershipTierID = &memTier
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("members tier", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableMembers
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.IsMember = true
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("members tier accepts invitees", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableMembers
		snap.Invitation = &model.EventInvitation{EventID: 1, UserID: 42}
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("invited tier", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableInvited
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.IsMember = true
		assert.False(t, tierPurchasableBy(tier, snap), "membership does not satisfy INVITED")

		snap.Invitation = &model.EventInvitation{EventID: 1, UserID: 42}
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("invitation bound to another tier does not count", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableInvited
		snap.Invitation = &model.EventInvitation{EventID: 1, UserID: 42, TierID: &otherTier}
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.Invitation.TierID = &tierID
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("invited and members requires both", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableInvitedAndMembers
		snap.Invitation = &model.EventInvitation{EventID: 1, UserID: 42}
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.Invitation = nil
		snap.IsMember = true
		assert.False(t, tierPurchasableBy(tier, snap))

		snap.Invitation = &model.EventInvitation{EventID: 1, UserID: 42}
		assert.True(t, tierPurchasableBy(tier, snap))
	})

	t.Run("owner and staff always pass", func(t *testing.T) {
		tier, snap := base()
		tier.PurchasableBy = model.TierPurchasableInvited
		snap.IsOwner = true
		assert.True(t, tierPurchasableBy(tier, snap))

		snap.IsOwner = false
		snap.IsStaff = true
		assert.True(t, tierPurchasableBy(tier, snap))
	})
}

func TestMembershipTierAllowed(t *testing.T) {
	id7, id8 := uint64(7), uint64(8)

	tier := &model.TicketTier{}
	assert.True(t, membershipTierAllowed(tier, nil), "no allowlist admits everyone")

	tier.MembershipTierIDs = []uint64{id7}
	assert.False(t, membershipTierAllowed(tier, nil))
	assert.False(t, membershipTierAllowed(tier, &id8))
	assert.True(t, membershipTierAllowed(tier, &id7))
}
