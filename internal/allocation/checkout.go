package allocation

import (
    "context"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// RedirectHandle is the opaque result of deferring a purchase to the
// payment collaborator.  The ticket rows for an online purchase are
// created by a separate confirmation path once payment succeeds.
type RedirectHandle struct {
    URL       string `json:"url"`
    Reference string `json:"reference"`
}

// PaymentProvider creates checkout sessions for ONLINE tiers.  It is
// an external collaborator; the engine never inspects the handle.
type PaymentProvider interface {
    CreateCheckoutSession(ctx context.Context, ev *model.Event, tier *model.TicketTier, userID uint64, quantity uint32, priceOverrideCents *uint32) (RedirectHandle, error)
}

// Notifier receives fire-and-forget ticket-created notifications after
// the allocation transaction has committed.  Failures are the
// notifier's problem; they never roll back an allocation.
type Notifier interface {
    NotifyTicketCreated(ticketID uint64)
}

// Result is the outcome of a checkout: either the created tickets or,
// for ONLINE tiers, a redirect handle and no tickets.
type Result struct {
    Tickets  []*model.Ticket `json:"tickets,omitempty"`
    Redirect *RedirectHandle `json:"redirect,omitempty"`
}

// Engine composes capacity allocation, seat resolution and checkout
// dispatch over a Store.  One Engine is shared by all requests; it
// holds no per-request state.
type Engine struct {
    store    Store
    payments PaymentProvider
    notifier Notifier
    now      func() time.Time
    serial   func() string
}

// NewEngine constructs an Engine.  payments may be nil when no ONLINE
// tier exists; notifier may be nil to disable notifications.
func NewEngine(store Store, payments PaymentProvider, notifier Notifier) *Engine {
    return &Engine{
        store:    store,
        payments: payments,
        notifier: notifier,
        now:      func() time.Time { return time.Now().UTC() },
        serial:   uuid.NewString,
    }
}

// Checkout issues a single ticket (or redirect) for the tier.  The
// re-purchase guard runs first, before any locking: holders of a
// non-cancelled non-online ticket for this (event, tier) cannot buy a
// second one through this path.
func (e *Engine) Checkout(ctx context.Context, ev *model.Event, tier *model.TicketTier, inv *model.EventInvitation, userID uint64, item Item, priceOverrideCents *uint32) (*Result, error) {
    if ev == nil || tier == nil {
        return nil, &ConfigurationError{Msg: "checkout requires an event and a tier"}
    }
    if effectivePaymentMethod(tier, invitationFor(inv, tier)) != model.PaymentOnline {
        has, err := e.store.HasNonOnlineTicket(ctx, ev.ID, tier.ID, userID)
        if err != nil {
            return nil, err
        }
        if has {
            return nil, ErrAlreadyHasTicket
        }
    }
    return e.CreateBatch(ctx, ev, tier, inv, userID, []Item{item}, priceOverrideCents)
}

// invitationFor returns inv when its dispensations apply to the tier:
// either the invitation is unbound or it names this tier.
func invitationFor(inv *model.EventInvitation, tier *model.TicketTier) *model.EventInvitation {
    if inv == nil {
        return nil
    }
    if inv.TierID != nil && *inv.TierID != tier.ID {
        return nil
    }
    return inv
}

// effectivePaymentMethod collapses a purchase-waiving invitation into
// the FREE path regardless of the tier's configured method.
func effectivePaymentMethod(tier *model.TicketTier, inv *model.EventInvitation) string {
    if inv != nil && inv.WaivePurchase {
        return model.PaymentFree
    }
    return tier.PaymentMethod
}
