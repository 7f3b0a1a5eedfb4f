// This file defines handlers for the public browsing API. These routes
// let unauthenticated users browse open events, tiers on sale and seat
// maps. Sensitive fields (organization internals, capacity counters)
// are filtered from responses.

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing. It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	Events *repository.EventRepo
	Tiers  *repository.TierRepo
	Venues *repository.VenueRepo
}

// PublicEvent represents an event exposed via the public API. It
// contains only safe fields.
type PublicEvent struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	RequiresTicket bool      `json:"requires_ticket"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
}

// PublicTier represents a tier in event detail responses. Only tiers
// that are publicly visible and currently on sale appear.
type PublicTier struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	PriceCents    uint32     `json:"price_cents"`
	PaymentMethod string     `json:"payment_method"`
	SeatMode      string     `json:"seat_mode"`
	SoldOut       bool       `json:"sold_out"`
	SalesEndAt    *time.Time `json:"sales_end_at,omitempty"`
}

// PublicEventDetail is the detailed event response with its on-sale
// tiers.
type PublicEventDetail struct {
	PublicEvent
	Tiers []PublicTier `json:"tiers"`
}

// GetOpenEvents handles GET /v1/events: all public OPEN events that
// have not ended, soonest first.
func (h *PublicHandler) GetOpenEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.Events.ListOpen(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, PublicEvent{
			ID:             ev.ID,
			Title:          ev.Title,
			RequiresTicket: ev.RequiresTicket,
			StartsAt:       ev.StartsAt,
			EndsAt:         ev.EndsAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent handles GET /v1/events/:id. Draft and private events are
// hidden from the public surface; tiers are filtered to publicly
// visible ones currently on sale.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		return respondDomainError(c, err)
	}
	if ev.Status == model.EventStatusDraft || ev.Visibility == model.EventVisibilityPrivate {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	resp := PublicEventDetail{
		PublicEvent: PublicEvent{
			ID:             ev.ID,
			Title:          ev.Title,
			RequiresTicket: ev.RequiresTicket,
			StartsAt:       ev.StartsAt,
			EndsAt:         ev.EndsAt,
		},
		Tiers: []PublicTier{},
	}
	if ev.RequiresTicket {
		tiers, err := h.Tiers.ListByEvent(ctx, eventID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		now := time.Now().UTC()
		for i := range tiers {
			t := &tiers[i]
			if t.Visibility != model.TierVisibilityPublic || !t.OnSale(now) {
				continue
			}
			soldOut := t.TotalQuantity != nil && t.QuantitySold >= *t.TotalQuantity
			resp.Tiers = append(resp.Tiers, PublicTier{
				ID:            t.ID,
				Name:          t.Name,
				PriceCents:    t.PriceCents,
				PaymentMethod: t.PaymentMethod,
				SeatMode:      t.SeatMode,
				SoldOut:       soldOut,
				SalesEndAt:    t.SalesEndAt,
			})
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSeatMap handles GET /v1/sectors/:id/seats: every seat of the
// sector with its claim state. The answer is a display read and may be
// momentarily stale; the allocator re-checks under lock.
func (h *PublicHandler) GetSeatMap(c echo.Context) error {
	ctx := c.Request().Context()
	sectorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Venues.SectorVenueID(ctx, sectorID); err != nil {
		return respondDomainError(c, err)
	}
	seats, err := h.Venues.SeatMap(ctx, sectorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
