package allocation

import (
    "context"

    "github.com/iliyamo/event-ticketing/internal/model"
)

// resolveSeats produces one SeatRef (or nil) per item according to the
// tier's seat assignment mode.  It must run inside the allocation
// transaction, after the tier row is locked: seat rows are locked here,
// which preserves the fixed tier-then-seats lock order.
func resolveSeats(ctx context.Context, tx Tx, tier *model.TicketTier, items []Item) ([]*SeatRef, error) {
    refs := make([]*SeatRef, len(items))

    switch tier.SeatMode {
    case "", model.SeatModeNone:
        // No seat coupling; every ref stays nil.
        return refs, nil

    case model.SeatModeRandom:
        if tier.VenueSectorID == nil {
            return nil, &ConfigurationError{Msg: "RANDOM seat mode without a sector binding"}
        }
        free, err := tx.LockFreeSeats(ctx, *tier.VenueSectorID, len(items))
        if err != nil {
            return nil, err
        }
        if len(free) < len(items) {
            return nil, ErrNotEnoughSeats
        }
        for i := range items {
            ref := free[i]
            refs[i] = &ref
        }
        return refs, nil

    case model.SeatModeUserChoice:
        if tier.VenueSectorID == nil {
            return nil, &ConfigurationError{Msg: "USER_CHOICE seat mode without a sector binding"}
        }
        // Reject duplicates within the batch before touching seat rows.
        chosen := make(map[uint64]struct{}, len(items))
        for _, it := range items {
            if it.SeatID == nil {
                return nil, ErrSeatSelectionRequired
            }
            if _, dup := chosen[*it.SeatID]; dup {
                return nil, ErrSeatUnavailable
            }
            chosen[*it.SeatID] = struct{}{}
        }
        for i, it := range items {
            ref, active, claimed, err := tx.LockSeat(ctx, *tier.VenueSectorID, *it.SeatID)
            if err != nil {
                return nil, err
            }
            if !active || claimed {
                return nil, ErrSeatUnavailable
            }
            refs[i] = &ref
        }
        return refs, nil
    }

    return nil, &ConfigurationError{Msg: "unknown seat mode " + tier.SeatMode}
}
