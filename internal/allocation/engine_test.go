package allocation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// fakeStore is an in-memory Store/Tx pair.  WithTx serializes callers
// on a mutex, mirroring the exclusive tier row lock of the SQL
// implementation, and rolls back counter and ticket mutations when the
// transaction function fails.  Seat claim state is derived from the
// non-cancelled tickets referencing a seat, as in the SQL store.
type fakeStore struct {
	mu      sync.Mutex
	tiers   map[uint64]*model.TicketTier
	tickets []*model.Ticket
	seats   map[uint64][]*fakeSeat
	rsvpYes map[uint64][]uint64
	nextID  uint64
}

type fakeSeat struct {
	id      uint64
	venueID uint64
	active  bool
}

func newFakeStore(tiers ...*model.TicketTier) *fakeStore {
	s := &fakeStore{
		tiers:   map[uint64]*model.TicketTier{},
		seats:   map[uint64][]*fakeSeat{},
		rsvpYes: map[uint64][]uint64{},
	}
	for _, t := range tiers {
		s.tiers[t.ID] = t
	}
	return s
}

func (s *fakeStore) addSeats(sectorID, venueID uint64, ids ...uint64) {
	for _, id := range ids {
		s.seats[sectorID] = append(s.seats[sectorID], &fakeSeat{id: id, venueID: venueID, active: true})
	}
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevSold := map[uint64]uint32{}
	for id, t := range s.tiers {
		prevSold[id] = t.QuantitySold
	}
	prevTickets := len(s.tickets)

	err := fn(ctx, &fakeTx{s: s})
	if err != nil {
		for id, sold := range prevSold {
			s.tiers[id].QuantitySold = sold
		}
		s.tickets = s.tickets[:prevTickets]
	}
	return err
}

// seatClaimed mirrors the SQL store's derived claim state: a seat is
// claimed while a non-cancelled ticket references it.
func (s *fakeStore) seatClaimed(seatID uint64) bool {
	for _, t := range s.tickets {
		if t.SeatID != nil && *t.SeatID == seatID && t.CountsTowardCapacity() {
			return true
		}
	}
	return false
}

// cancelTicket flips a ticket to CANCELLED and releases its capacity,
// the way the cancel endpoint does.
func (s *fakeStore) cancelTicket(ticketID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.ID == ticketID && t.CountsTowardCapacity() {
			t.Status = model.TicketStatusCancelled
			if tier, ok := s.tiers[t.TierID]; ok && tier.QuantitySold > 0 {
				tier.QuantitySold--
			}
		}
	}
}

func (s *fakeStore) HasNonOnlineTicket(ctx context.Context, eventID, tierID, userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.EventID == eventID && t.TierID == tierID && t.UserID != nil && *t.UserID == userID && t.CountsTowardCapacity() {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countUserTicketsLocked(tierID, userID), nil
}

func (s *fakeStore) countUserTicketsLocked(tierID, userID uint64) uint32 {
	var n uint32
	for _, t := range s.tickets {
		if t.TierID == tierID && t.UserID != nil && *t.UserID == userID && t.CountsTowardCapacity() {
			n++
		}
	}
	return n
}

type fakeTx struct {
	s *fakeStore
}

func (tx *fakeTx) LockTier(ctx context.Context, tierID uint64) (*model.TicketTier, error) {
	t, ok := tx.s.tiers[tierID]
	if !ok {
		return nil, errors.New("tier not found")
	}
	cp := *t
	return &cp, nil
}

func (tx *fakeTx) CountUserTickets(ctx context.Context, tierID, userID uint64) (uint32, error) {
	return tx.s.countUserTicketsLocked(tierID, userID), nil
}

func (tx *fakeTx) CountDistinctAttendees(ctx context.Context, eventID uint64) (uint32, error) {
	users := map[uint64]struct{}{}
	for _, t := range tx.s.tickets {
		if t.EventID == eventID && t.UserID != nil && t.CountsTowardCapacity() {
			users[*t.UserID] = struct{}{}
		}
	}
	for _, uid := range tx.s.rsvpYes[eventID] {
		users[uid] = struct{}{}
	}
	return uint32(len(users)), nil
}

func (tx *fakeTx) UserAttends(ctx context.Context, eventID, userID uint64) (bool, error) {
	for _, t := range tx.s.tickets {
		if t.EventID == eventID && t.UserID != nil && *t.UserID == userID && t.CountsTowardCapacity() {
			return true, nil
		}
	}
	for _, uid := range tx.s.rsvpYes[eventID] {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *fakeTx) LockFreeSeats(ctx context.Context, sectorID uint64, limit int) ([]SeatRef, error) {
	var refs []SeatRef
	for _, seat := range tx.s.seats[sectorID] {
		if len(refs) == limit {
			break
		}
		if seat.active && !tx.s.seatClaimed(seat.id) {
			refs = append(refs, SeatRef{SeatID: seat.id, SectorID: sectorID, VenueID: seat.venueID})
		}
	}
	return refs, nil
}

func (tx *fakeTx) LockSeat(ctx context.Context, sectorID, seatID uint64) (SeatRef, bool, bool, error) {
	for _, seat := range tx.s.seats[sectorID] {
		if seat.id == seatID {
			ref := SeatRef{SeatID: seat.id, SectorID: sectorID, VenueID: seat.venueID}
			return ref, seat.active, tx.s.seatClaimed(seat.id), nil
		}
	}
	return SeatRef{}, false, false, nil
}

func (tx *fakeTx) IncrementQuantitySold(ctx context.Context, tierID uint64, delta uint32) error {
	tx.s.tiers[tierID].QuantitySold += delta
	return nil
}

func (tx *fakeTx) InsertTickets(ctx context.Context, tickets []*model.Ticket) error {
	for _, t := range tickets {
		tx.s.nextID++
		t.ID = tx.s.nextID
		tx.s.tickets = append(tx.s.tickets, t)
	}
	return nil
}

type fakeNotifier struct {
	mu  sync.Mutex
	ids []uint64
}

func (n *fakeNotifier) NotifyTicketCreated(ticketID uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, ticketID)
}

type fakePayments struct {
	calls    int
	quantity uint32
}

func (p *fakePayments) CreateCheckoutSession(ctx context.Context, ev *model.Event, tier *model.TicketTier, userID uint64, quantity uint32, priceOverrideCents *uint32) (RedirectHandle, error) {
	p.calls++
	p.quantity = quantity
	return RedirectHandle{URL: "https://pay.example.com/session/abc", Reference: "abc"}, nil
}

func u32(v uint32) *uint32 { return &v }
func u64(v uint64) *uint64 { return &v }

func testEvent() *model.Event {
	return &model.Event{ID: 1, RequiresTicket: true, Status: model.EventStatusOpen}
}

func freeTier(total *uint32) *model.TicketTier {
	return &model.TicketTier{ID: 1, EventID: 1, PaymentMethod: model.PaymentFree, TotalQuantity: total}
}

func TestCheckoutFreeTierIssuesActiveTicket(t *testing.T) {
	store := newFakeStore(freeTier(u32(10)))
	notifier := &fakeNotifier{}
	engine := NewEngine(store, nil, notifier)

	res, err := engine.Checkout(context.Background(), testEvent(), store.tiers[1], nil, 42, Item{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Nil(t, res.Redirect)

	tk := res.Tickets[0]
	assert.Equal(t, model.TicketStatusActive, tk.Status)
	assert.NotEmpty(t, tk.Serial)
	assert.NotZero(t, tk.ID)
	assert.Nil(t, tk.SeatID)
	assert.Equal(t, uint32(1), store.tiers[1].QuantitySold)
	assert.Equal(t, []uint64{tk.ID}, notifier.ids)
}

func TestCheckoutOfflineTierIssuesPendingTicket(t *testing.T) {
	tier := freeTier(nil)
	tier.PaymentMethod = model.PaymentOffline
	tier.PriceCents = 2500
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	res, err := engine.Checkout(context.Background(), testEvent(), tier, nil, 42, Item{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, model.TicketStatusPending, res.Tickets[0].Status)
	assert.Equal(t, uint32(2500), res.Tickets[0].PriceCents)
}

func TestCheckoutOnlineTierReturnsRedirectAndNoTickets(t *testing.T) {
	tier := freeTier(u32(10))
	tier.PaymentMethod = model.PaymentOnline
	store := newFakeStore(tier)
	payments := &fakePayments{}
	engine := NewEngine(store, payments, nil)

	res, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}, {}}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Tickets)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, "abc", res.Redirect.Reference)
	assert.Equal(t, uint32(3), payments.quantity)

	// Nothing was reserved; tickets belong to the confirmation path.
	assert.Equal(t, uint32(0), store.tiers[1].QuantitySold)
	assert.Empty(t, store.tickets)
}

func TestCheckoutOnlineWithoutProviderFails(t *testing.T) {
	tier := freeTier(nil)
	tier.PaymentMethod = model.PaymentOnline
	engine := NewEngine(newFakeStore(tier), nil, nil)

	_, err := engine.Checkout(context.Background(), testEvent(), tier, nil, 42, Item{}, nil)
	var cfg *ConfigurationError
	assert.ErrorAs(t, err, &cfg)
}

func TestCheckoutRepurchaseGuard(t *testing.T) {
	store := newFakeStore(freeTier(nil))
	engine := NewEngine(store, nil, nil)

	_, err := engine.Checkout(context.Background(), testEvent(), store.tiers[1], nil, 42, Item{}, nil)
	require.NoError(t, err)

	_, err = engine.Checkout(context.Background(), testEvent(), store.tiers[1], nil, 42, Item{}, nil)
	assert.ErrorIs(t, err, ErrAlreadyHasTicket)

	// A different user is unaffected.
	_, err = engine.Checkout(context.Background(), testEvent(), store.tiers[1], nil, 43, Item{}, nil)
	assert.NoError(t, err)
}

func TestBatchTierCapacityIsAllOrNothing(t *testing.T) {
	tier := freeTier(u32(5))
	tier.QuantitySold = 3
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}, {}}, nil)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, ScopeTier, capErr.Scope)
	assert.Equal(t, uint32(2), capErr.Remaining)

	// The failed batch left no trace.
	assert.Equal(t, uint32(3), store.tiers[1].QuantitySold)
	assert.Empty(t, store.tickets)

	// A batch that fits the remaining capacity succeeds.
	res, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)
	assert.Equal(t, uint32(5), store.tiers[1].QuantitySold)
}

func TestBatchPerUserCap(t *testing.T) {
	tier := freeTier(nil)
	tier.MaxTicketsPerUser = u32(2)
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}, {}}, nil)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, ScopeUser, capErr.Scope)
	assert.Equal(t, uint32(2), capErr.Remaining)

	res, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)

	// Held tickets count against later purchases.
	_, err = engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}}, nil)
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(0), capErr.Remaining)
}

func TestEventCapCountsDistinctAttendees(t *testing.T) {
	tier := freeTier(nil)
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)
	ev := testEvent()
	ev.MaxAttendees = 1

	// First attendee may take several tickets; they occupy one slot.
	res, err := engine.CreateBatch(context.Background(), ev, tier, nil, 42, []Item{{}, {}}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)

	// An existing attendee buying again does not consume a new slot.
	_, err = engine.CreateBatch(context.Background(), ev, tier, nil, 42, []Item{{}}, nil)
	assert.NoError(t, err)

	// A second distinct user is turned away.
	_, err = engine.CreateBatch(context.Background(), ev, tier, nil, 43, []Item{{}}, nil)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, ScopeEvent, capErr.Scope)
	assert.Equal(t, uint32(0), capErr.Remaining)
}

func TestInvitationOverridesEventCap(t *testing.T) {
	tier := freeTier(nil)
	store := newFakeStore(tier)
	store.rsvpYes[1] = []uint64{7}
	engine := NewEngine(store, nil, nil)
	ev := testEvent()
	ev.MaxAttendees = 1

	inv := &model.EventInvitation{EventID: 1, UserID: 42, OverrideMaxAttendees: true}
	_, err := engine.CreateBatch(context.Background(), ev, tier, inv, 42, []Item{{}}, nil)
	assert.NoError(t, err)
}

func TestInvitationWaivesPurchase(t *testing.T) {
	tier := freeTier(nil)
	tier.PaymentMethod = model.PaymentOnline
	tier.PriceCents = 5000
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	inv := &model.EventInvitation{EventID: 1, UserID: 42, WaivePurchase: true}
	res, err := engine.Checkout(context.Background(), testEvent(), tier, inv, 42, Item{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Nil(t, res.Redirect)
	assert.Equal(t, model.TicketStatusActive, res.Tickets[0].Status)
	assert.Equal(t, uint32(0), res.Tickets[0].PriceCents)
}

func TestInvitationBoundToOtherTierDoesNotApply(t *testing.T) {
	tier := freeTier(nil)
	tier.PaymentMethod = model.PaymentOffline
	tier.PriceCents = 5000
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	inv := &model.EventInvitation{EventID: 1, UserID: 42, TierID: u64(99), WaivePurchase: true}
	res, err := engine.Checkout(context.Background(), testEvent(), tier, inv, 42, Item{}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusPending, res.Tickets[0].Status)
	assert.Equal(t, uint32(5000), res.Tickets[0].PriceCents)
}

func TestPriceOverride(t *testing.T) {
	tier := freeTier(nil)
	tier.PaymentMethod = model.PaymentOffline
	tier.PriceCents = 5000
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	res, err := engine.Checkout(context.Background(), testEvent(), tier, nil, 42, Item{}, u32(4200))
	require.NoError(t, err)
	assert.Equal(t, uint32(4200), res.Tickets[0].PriceCents)
}

func TestRandomSeatAssignment(t *testing.T) {
	tier := freeTier(nil)
	tier.SeatMode = model.SeatModeRandom
	tier.VenueSectorID = u64(5)
	store := newFakeStore(tier)
	store.addSeats(5, 9, 101, 102, 103)
	engine := NewEngine(store, nil, nil)

	res, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}, {}}, nil)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 2)

	seen := map[uint64]bool{}
	for _, tk := range res.Tickets {
		require.NotNil(t, tk.SeatID)
		assert.False(t, seen[*tk.SeatID], "seat assigned twice")
		seen[*tk.SeatID] = true
		assert.Equal(t, uint64(5), *tk.SectorID)
		assert.Equal(t, uint64(9), *tk.VenueID)
	}

	// One seat left; asking for two fails without touching the counter.
	_, err = engine.CreateBatch(context.Background(), testEvent(), tier, nil, 43, []Item{{}, {}}, nil)
	assert.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.Equal(t, uint32(2), store.tiers[1].QuantitySold)
}

func TestUserChoiceSeatSelection(t *testing.T) {
	tier := freeTier(nil)
	tier.SeatMode = model.SeatModeUserChoice
	tier.VenueSectorID = u64(5)
	store := newFakeStore(tier)
	store.addSeats(5, 9, 101, 102)
	engine := NewEngine(store, nil, nil)

	t.Run("missing seat id", func(t *testing.T) {
		_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}}, nil)
		assert.ErrorIs(t, err, ErrSeatSelectionRequired)
	})
	t.Run("duplicate seats in one batch", func(t *testing.T) {
		_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{SeatID: u64(101)}, {SeatID: u64(101)}}, nil)
		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})
	t.Run("unknown seat", func(t *testing.T) {
		_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{SeatID: u64(999)}}, nil)
		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})
	t.Run("claimed seat is exclusive", func(t *testing.T) {
		res, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{SeatID: u64(101)}}, nil)
		require.NoError(t, err)
		require.NotNil(t, res.Tickets[0].SeatID)
		assert.Equal(t, uint64(101), *res.Tickets[0].SeatID)

		_, err = engine.CreateBatch(context.Background(), testEvent(), tier, nil, 43, []Item{{SeatID: u64(101)}}, nil)
		assert.ErrorIs(t, err, ErrSeatUnavailable)
	})
}

func TestCancelledTicketFreesSeatAndCapacity(t *testing.T) {
	tier := freeTier(u32(1))
	tier.SeatMode = model.SeatModeUserChoice
	tier.VenueSectorID = u64(5)
	store := newFakeStore(tier)
	store.addSeats(5, 9, 101)
	engine := NewEngine(store, nil, nil)
	ev := testEvent()

	res, err := engine.CreateBatch(context.Background(), ev, tier, nil, 42, []Item{{SeatID: u64(101)}}, nil)
	require.NoError(t, err)
	held := res.Tickets[0]

	// Seat and capacity are both taken.
	_, err = engine.CreateBatch(context.Background(), ev, tier, nil, 43, []Item{{SeatID: u64(101)}}, nil)
	require.ErrorIs(t, err, ErrSeatUnavailable)

	store.cancelTicket(held.ID)

	// Cancelling released both: a new user may claim the same seat.
	res, err = engine.CreateBatch(context.Background(), ev, tier, nil, 43, []Item{{SeatID: u64(101)}}, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Tickets[0].SeatID)
	assert.Equal(t, uint64(101), *res.Tickets[0].SeatID)
	assert.Equal(t, uint32(1), store.tiers[1].QuantitySold)
}

func TestCancelledTicketReturnsSeatToRandomPool(t *testing.T) {
	tier := freeTier(nil)
	tier.SeatMode = model.SeatModeRandom
	tier.VenueSectorID = u64(5)
	store := newFakeStore(tier)
	store.addSeats(5, 9, 101)
	engine := NewEngine(store, nil, nil)
	ev := testEvent()

	res, err := engine.CreateBatch(context.Background(), ev, tier, nil, 42, []Item{{}}, nil)
	require.NoError(t, err)

	_, err = engine.CreateBatch(context.Background(), ev, tier, nil, 43, []Item{{}}, nil)
	require.ErrorIs(t, err, ErrNotEnoughSeats)

	store.cancelTicket(res.Tickets[0].ID)

	res, err = engine.CreateBatch(context.Background(), ev, tier, nil, 43, []Item{{}}, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Tickets[0].SeatID)
	assert.Equal(t, uint64(101), *res.Tickets[0].SeatID)
}

func TestSeatedTierWithoutSectorIsMisconfigured(t *testing.T) {
	tier := freeTier(nil)
	tier.SeatMode = model.SeatModeRandom
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)

	_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}}, nil)
	var cfg *ConfigurationError
	assert.ErrorAs(t, err, &cfg)
}

func TestBatchRejectsMismatchedTier(t *testing.T) {
	tier := freeTier(nil)
	tier.EventID = 2
	engine := NewEngine(newFakeStore(tier), nil, nil)

	_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}}, nil)
	var cfg *ConfigurationError
	assert.ErrorAs(t, err, &cfg)
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	const workers = 20
	const capacity = 5

	tier := freeTier(u32(capacity))
	store := newFakeStore(tier)
	engine := NewEngine(store, nil, nil)
	ev := testEvent()

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.CreateBatch(context.Background(), ev, tier, nil, uint64(100+i), []Item{{}}, nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, ScopeTier, capErr.Scope)
	}
	assert.Equal(t, capacity, winners)
	assert.Equal(t, uint32(capacity), store.tiers[1].QuantitySold)
	assert.Len(t, store.tickets, capacity)
}

func TestConcurrentUserChoiceSeatHasOneWinner(t *testing.T) {
	const workers = 10

	tier := freeTier(nil)
	tier.SeatMode = model.SeatModeUserChoice
	tier.VenueSectorID = u64(5)
	store := newFakeStore(tier)
	store.addSeats(5, 9, 101)
	engine := NewEngine(store, nil, nil)
	ev := testEvent()

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.CreateBatch(context.Background(), ev, tier, nil, uint64(100+i), []Item{{SeatID: u64(101)}}, nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSeatUnavailable)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, uint32(1), store.tiers[1].QuantitySold)
}

func TestNotifierReceivesEveryTicketAfterCommit(t *testing.T) {
	store := newFakeStore(freeTier(nil))
	notifier := &fakeNotifier{}
	engine := NewEngine(store, nil, notifier)

	res, err := engine.CreateBatch(context.Background(), testEvent(), store.tiers[1], nil, 42, []Item{{}, {}, {}}, nil)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 3)
	assert.Len(t, notifier.ids, 3)
}

func TestFailedBatchNotifiesNothing(t *testing.T) {
	tier := freeTier(u32(1))
	tier.QuantitySold = 1
	store := newFakeStore(tier)
	notifier := &fakeNotifier{}
	engine := NewEngine(store, nil, notifier)

	_, err := engine.CreateBatch(context.Background(), testEvent(), tier, nil, 42, []Item{{}}, nil)
	require.Error(t, err)
	assert.Empty(t, notifier.ids)
}
