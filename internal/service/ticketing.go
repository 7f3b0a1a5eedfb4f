package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/eligibility"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// Service-level sentinel errors.  Handlers map these to HTTP statuses.
var (
	// ErrTierNotPurchasable is returned when the tier's purchasable_by
	// class or membership restriction excludes the caller.
	ErrTierNotPurchasable = errors.New("tier is not purchasable by this user")
	// ErrRSVPNotApplicable is returned when an RSVP is submitted for a
	// ticketed event.
	ErrRSVPNotApplicable = errors.New("event takes tickets, not RSVPs")
	// ErrInvalidRSVPAnswer is returned for answers outside YES/NO/MAYBE.
	ErrInvalidRSVPAnswer = errors.New("invalid RSVP answer")
)

// Ticketing composes the snapshot loader, the gate chain and the
// allocation engine into the participation operations exposed over
// HTTP.  All methods are safe for concurrent use.
type Ticketing struct {
	loader  eligibility.Loader
	chain   *eligibility.Chain
	engine  *allocation.Engine
	tickets *repository.TicketRepo
	rsvps   *repository.RSVPRepo
}

// NewTicketing constructs the service with the production gate order.
func NewTicketing(loader eligibility.Loader, engine *allocation.Engine, tickets *repository.TicketRepo, rsvps *repository.RSVPRepo) *Ticketing {
	return &Ticketing{
		loader:  loader,
		chain:   eligibility.DefaultChain(),
		engine:  engine,
		tickets: tickets,
		rsvps:   rsvps,
	}
}

// CheckEligibility loads the participation snapshot and evaluates the
// gate chain.  The decision is advisory: a positive answer does not
// reserve capacity, and the same chain runs again inside Checkout.
// Evaluating twice in a row yields the same decision because gates
// never write.
func (s *Ticketing) CheckEligibility(ctx context.Context, userID, eventID uint64, bypass bool) (*eligibility.Snapshot, eligibility.Decision, error) {
	snap, err := s.loader.LoadParticipationSnapshot(ctx, userID, eventID)
	if err != nil {
		return nil, eligibility.Decision{}, err
	}
	return snap, s.chain.Decide(snap, bypass), nil
}

// RSVP records the user's answer for a non-ticketed event.  The gate
// chain is consulted first so a full or closed event rejects new "YES"
// answers; withdrawing ("NO") is always allowed for an existing RSVP.
// The gate's availability check is advisory: the repository re-checks
// the attendee cap under a lock on the event row before committing a
// new "YES", so concurrent answers cannot overshoot max_attendees.
func (s *Ticketing) RSVP(ctx context.Context, userID, eventID uint64, answer string, bypass bool) (*model.EventRSVP, error) {
	switch answer {
	case model.RSVPYes, model.RSVPNo, model.RSVPMaybe:
	default:
		return nil, ErrInvalidRSVPAnswer
	}
	snap, err := s.loader.LoadParticipationSnapshot(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if snap.Event.RequiresTicket {
		return nil, ErrRSVPNotApplicable
	}
	if answer != model.RSVPNo || snap.RSVP == nil {
		if d := s.chain.Decide(snap, bypass); !d.Allowed {
			return nil, &eligibility.DeniedError{Decision: d}
		}
	}
	capacity := snap.Event.MaxAttendees
	if bypass || snap.IsOwner || snap.IsStaff ||
		snap.InvitationWaives(func(inv *model.EventInvitation) bool { return inv.OverrideMaxAttendees }) {
		capacity = 0
	}
	return s.rsvps.Upsert(ctx, eventID, userID, answer, capacity)
}

// Checkout issues one ticket (or a payment redirect) from the tier.
// The gate chain and the tier purchasability rules run on a fresh
// snapshot before the allocation engine takes any lock.
func (s *Ticketing) Checkout(ctx context.Context, userID, eventID, tierID uint64, seatID *uint64, bypass bool) (*allocation.Result, error) {
	snap, tier, err := s.admit(ctx, userID, eventID, tierID, bypass)
	if err != nil {
		return nil, err
	}
	return s.engine.Checkout(ctx, snap.Event, tier, snap.Invitation, userID, allocation.Item{SeatID: seatID}, nil)
}

// CheckoutBatch issues one ticket per item in a single all-or-nothing
// allocation.
func (s *Ticketing) CheckoutBatch(ctx context.Context, userID, eventID, tierID uint64, items []allocation.Item, bypass bool) (*allocation.Result, error) {
	snap, tier, err := s.admit(ctx, userID, eventID, tierID, bypass)
	if err != nil {
		return nil, err
	}
	return s.engine.CreateBatch(ctx, snap.Event, tier, snap.Invitation, userID, items, nil)
}

// admit runs the shared pre-allocation checks: snapshot load, gate
// chain, tier lookup and purchasability.
func (s *Ticketing) admit(ctx context.Context, userID, eventID, tierID uint64, bypass bool) (*eligibility.Snapshot, *model.TicketTier, error) {
	snap, err := s.loader.LoadParticipationSnapshot(ctx, userID, eventID)
	if err != nil {
		return nil, nil, err
	}
	if d := s.chain.Decide(snap, bypass); !d.Allowed {
		return nil, nil, &eligibility.DeniedError{Decision: d}
	}
	var tier *model.TicketTier
	for i := range snap.Tiers {
		if snap.Tiers[i].ID == tierID {
			tier = &snap.Tiers[i]
			break
		}
	}
	if tier == nil {
		return nil, nil, repository.ErrTierNotFound
	}
	if !bypass && !tierPurchasableBy(tier, snap) {
		return nil, nil, ErrTierNotPurchasable
	}
	return snap, tier, nil
}

// tierPurchasableBy applies the tier's purchasable_by class and
// membership-tier restriction to the snapshot's viewer facts.  Owners
// and staff always pass; an invitation applying to the tier satisfies
// the INVITED classes.
func tierPurchasableBy(tier *model.TicketTier, snap *eligibility.Snapshot) bool {
	if snap.IsOwner || snap.IsStaff {
		return true
	}
	invited := snap.Invitation != nil &&
		(snap.Invitation.TierID == nil || *snap.Invitation.TierID == tier.ID)
	memberOK := snap.IsMember && membershipTierAllowed(tier, snap.MembershipTierID)

	switch tier.PurchasableBy {
	case model.TierPurchasablePublic:
		return len(tier.MembershipTierIDs) == 0 || memberOK || invited
	case model.TierPurchasableMembers:
		return memberOK || invited
	case model.TierPurchasableInvited:
		return invited
	case model.TierPurchasableInvitedAndMembers:
		return invited && snap.IsMember
	}
	return false
}

// membershipTierAllowed checks the optional membership-tier allowlist.
func membershipTierAllowed(tier *model.TicketTier, membershipTierID *uint64) bool {
	if len(tier.MembershipTierIDs) == 0 {
		return true
	}
	if membershipTierID == nil {
		return false
	}
	for _, id := range tier.MembershipTierIDs {
		if id == *membershipTierID {
			return true
		}
	}
	return false
}

// CancelTicket cancels one of the user's tickets, releasing its seat
// and capacity.
func (s *Ticketing) CancelTicket(ctx context.Context, userID, ticketID uint64) error {
	return s.tickets.Cancel(ctx, ticketID, userID)
}

// MyTickets lists the user's tickets across all events, newest first.
func (s *Ticketing) MyTickets(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}
