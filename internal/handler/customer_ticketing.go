package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// CustomerHandler exposes participation endpoints: eligibility checks,
// RSVPs, checkout and ticket management. JWT authentication has
// already run; methods return 401 only when the user ID cannot be
// extracted from the context.
type CustomerHandler struct {
	Ticketing *service.Ticketing
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(t *service.Ticketing) *CustomerHandler {
	if t == nil {
		panic("nil service passed to NewCustomerHandler")
	}
	return &CustomerHandler{Ticketing: t}
}

// bypassRequested reports whether the caller asked to skip the gate
// chain and is allowed to. Only administrators may set the flag.
func bypassRequested(c echo.Context) bool {
	return c.QueryParam("bypass") == "true" && getRole(c) == model.RoleAdmin
}

// CheckEligibility handles GET /v1/events/:id/eligibility. The answer
// is advisory and reserves nothing; the same gates run again at
// checkout.
func (h *CustomerHandler) CheckEligibility(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	_, decision, err := h.Ticketing.CheckEligibility(c.Request().Context(), userID, eventID, bypassRequested(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, decision)
}

// RSVP handles POST /v1/events/:id/rsvp with body {"answer": "YES"}.
func (h *CustomerHandler) RSVP(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Answer string `json:"answer"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rsvp, err := h.Ticketing.RSVP(c.Request().Context(), userID, eventID, body.Answer, bypassRequested(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rsvp": rsvp})
}

// Checkout handles POST /v1/events/:id/checkout. The body names the
// tier and, for USER_CHOICE tiers, the seat.
func (h *CustomerHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		TierID uint64  `json:"tier_id"`
		SeatID *uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil || body.TierID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier_id is required"})
	}
	result, err := h.Ticketing.Checkout(c.Request().Context(), userID, eventID, body.TierID, body.SeatID, bypassRequested(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	if result.Redirect != nil {
		return c.JSON(http.StatusOK, echo.Map{"redirect": result.Redirect})
	}
	return c.JSON(http.StatusCreated, echo.Map{"tickets": result.Tickets})
}

// CheckoutBatch handles POST /v1/events/:id/checkout/batch. Each item
// yields one ticket; the whole batch succeeds or fails together.
func (h *CustomerHandler) CheckoutBatch(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		TierID uint64 `json:"tier_id"`
		Items  []struct {
			SeatID *uint64 `json:"seat_id"`
		} `json:"items"`
	}
	if err := c.Bind(&body); err != nil || body.TierID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier_id is required"})
	}
	if len(body.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	items := make([]allocation.Item, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, allocation.Item{SeatID: it.SeatID})
	}
	result, err := h.Ticketing.CheckoutBatch(c.Request().Context(), userID, eventID, body.TierID, items, bypassRequested(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	if result.Redirect != nil {
		return c.JSON(http.StatusOK, echo.Map{"redirect": result.Redirect})
	}
	return c.JSON(http.StatusCreated, echo.Map{"tickets": result.Tickets})
}

// MyTickets handles GET /v1/my-tickets.
func (h *CustomerHandler) MyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Ticketing.MyTickets(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// CancelTicket handles DELETE /v1/tickets/:id. Cancelling releases the
// seat and the tier capacity the ticket held.
func (h *CustomerHandler) CancelTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Ticketing.CancelTicket(c.Request().Context(), userID, ticketID); err != nil {
		return respondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
