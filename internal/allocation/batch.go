package allocation

import (
    "context"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// CreateBatch issues len(items) tickets for one user in a single
// all-or-nothing transaction.  Steps, each failure aborting all prior
// work: batch size against the remaining per-user allowance (before
// any lock), seat resolution for every item, tier and event capacity
// for the full batch, then ticket creation with quantity_sold
// incremented by the batch size exactly once.  ONLINE tiers return one
// redirect handle sized for the whole batch and create no tickets.
func (e *Engine) CreateBatch(ctx context.Context, ev *model.Event, tier *model.TicketTier, inv *model.EventInvitation, userID uint64, items []Item, priceOverrideCents *uint32) (*Result, error) {
    if ev == nil || tier == nil {
        return nil, &ConfigurationError{Msg: "batch checkout requires an event and a tier"}
    }
    if tier.EventID != ev.ID {
        return nil, &ConfigurationError{Msg: "tier does not belong to the event"}
    }
    if len(items) == 0 {
        return nil, &ConfigurationError{Msg: "batch checkout requires at least one item"}
    }
    count := uint32(len(items))
    inv = invitationFor(inv, tier)

    // Pre-lock batch size check.  The same rule is re-validated under
    // the tier lock; this read only exists so oversized requests fail
    // before touching contended rows.
    if cap, capped := tier.EffectiveUserCap(ev); capped {
        held, err := e.store.CountUserTickets(ctx, tier.ID, userID)
        if err != nil {
            return nil, err
        }
        if held+count > cap {
            remaining := uint32(0)
            if cap > held {
                remaining = cap - held
            }
            return nil, &CapacityError{Scope: ScopeUser, Remaining: remaining}
        }
    }

    if effectivePaymentMethod(tier, inv) == model.PaymentOnline {
        if e.payments == nil {
            return nil, &ConfigurationError{Msg: "ONLINE tier without a payment provider"}
        }
        handle, err := e.payments.CreateCheckoutSession(ctx, ev, tier, userID, count, priceOverrideCents)
        if err != nil {
            return nil, err
        }
        return &Result{Redirect: &handle}, nil
    }

    status := model.TicketStatusPending
    if effectivePaymentMethod(tier, inv) == model.PaymentFree {
        status = model.TicketStatusActive
    }
    price := tier.PriceCents
    if priceOverrideCents != nil {
        price = *priceOverrideCents
    }
    if inv != nil && inv.WaivePurchase {
        price = 0
    }

    overrideEventCap := inv != nil && inv.OverrideMaxAttendees

    var created []*model.Ticket
    err := e.store.WithTx(ctx, func(ctx context.Context, tx Tx) error {
        // Tier row lock first; seat rows afterwards.  This order is
        // load-bearing: it linearizes reservations per tier and keeps
        // concurrent purchasers of different seats deadlock-free.
        locked, err := tx.LockTier(ctx, tier.ID)
        if err != nil {
            return err
        }
        refs, err := resolveSeats(ctx, tx, locked, items)
        if err != nil {
            return err
        }
        if err := reserve(ctx, tx, ev, locked, userID, count, overrideEventCap); err != nil {
            return err
        }
        tickets := make([]*model.Ticket, 0, len(items))
        uid := userID
        for i := range items {
            t := &model.Ticket{
                Serial:     e.serial(),
                EventID:    ev.ID,
                TierID:     tier.ID,
                UserID:     &uid,
                Status:     status,
                PriceCents: price,
                CreatedAt:  e.now(),
            }
            if refs[i] != nil {
                seatID, sectorID, venueID := refs[i].SeatID, refs[i].SectorID, refs[i].VenueID
                t.SeatID = &seatID
                t.SectorID = &sectorID
                t.VenueID = &venueID
            }
            tickets = append(tickets, t)
        }
        if err := tx.InsertTickets(ctx, tickets); err != nil {
            return err
        }
        created = tickets
        return nil
    })
    if err != nil {
        return nil, err
    }

    if e.notifier != nil {
        for _, t := range created {
            e.notifier.NotifyTicketCreated(t.ID)
        }
    }
    return &Result{Tickets: created}, nil
}
