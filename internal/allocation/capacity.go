package allocation

import (
    "context"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// reserve validates the three nested capacity scopes for count tickets
// and, on success, increments the tier's quantity_sold.  It must run
// under the tier row lock taken by the caller; tier is the locked row.
//
// Validation order is fixed: per-user cap, tier capacity, event
// capacity.  Each failure carries the accurate remaining allowance of
// its scope.  overrideEventCap comes from an invitation that lifts the
// attendee cap for this user.
func reserve(ctx context.Context, tx Tx, ev *model.Event, tier *model.TicketTier, userID uint64, count uint32, overrideEventCap bool) error {
    if count == 0 {
        return &ConfigurationError{Msg: "reserve called with zero count"}
    }

    if cap, capped := tier.EffectiveUserCap(ev); capped {
        held, err := tx.CountUserTickets(ctx, tier.ID, userID)
        if err != nil {
            return err
        }
        if held+count > cap {
            remaining := uint32(0)
            if cap > held {
                remaining = cap - held
            }
            return &CapacityError{Scope: ScopeUser, Remaining: remaining}
        }
    }

    if tier.TotalQuantity != nil {
        total := *tier.TotalQuantity
        if tier.QuantitySold+count > total {
            remaining := uint32(0)
            if total > tier.QuantitySold {
                remaining = total - tier.QuantitySold
            }
            return &CapacityError{Scope: ScopeTier, Remaining: remaining}
        }
    }

    if ev.MaxAttendees > 0 && !overrideEventCap {
        attends, err := tx.UserAttends(ctx, ev.ID, userID)
        if err != nil {
            return err
        }
        // Only a genuinely new attendee consumes an event slot; all
        // count tickets belong to the same user.
        if !attends {
            attendees, err := tx.CountDistinctAttendees(ctx, ev.ID)
            if err != nil {
                return err
            }
            if attendees+1 > ev.MaxAttendees {
                remaining := uint32(0)
                if ev.MaxAttendees > attendees {
                    remaining = ev.MaxAttendees - attendees
                }
                return &CapacityError{Scope: ScopeEvent, Remaining: remaining}
            }
        }
    }

    return tx.IncrementQuantitySold(ctx, tier.ID, count)
}
