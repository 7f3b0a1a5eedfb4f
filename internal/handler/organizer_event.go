package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// OrganizerHandler bundles the repositories organizers use to manage
// organizations, events, tiers and invitations. Role middleware has
// already restricted these routes to ORGANIZER and ADMIN; per-resource
// ownership is still verified against the owning organization on every
// call.
type OrganizerHandler struct {
	Orgs        *repository.OrganizationRepo
	Events      *repository.EventRepo
	Tiers       *repository.TierRepo
	Tickets     *repository.TicketRepo
	RSVPs       *repository.RSVPRepo
	Invitations *repository.InvitationRepo
}

// NewOrganizerHandler constructs an OrganizerHandler and panics if any
// dependency is nil.
func NewOrganizerHandler(orgs *repository.OrganizationRepo, events *repository.EventRepo, tiers *repository.TierRepo, tickets *repository.TicketRepo, rsvps *repository.RSVPRepo, invitations *repository.InvitationRepo) *OrganizerHandler {
	if orgs == nil || events == nil || tiers == nil || tickets == nil || rsvps == nil || invitations == nil {
		panic("nil repository passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{
		Orgs:        orgs,
		Events:      events,
		Tiers:       tiers,
		Tickets:     tickets,
		RSVPs:       rsvps,
		Invitations: invitations,
	}
}

// CreateOrganization handles POST /v1/organizer/organizations.
func (h *OrganizerHandler) CreateOrganization(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	org := &model.Organization{Name: strings.TrimSpace(body.Name), OwnerUserID: userID}
	if err := h.Orgs.Create(c.Request().Context(), org); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create organization failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"organization": org})
}

// ListOrganizations handles GET /v1/organizer/organizations.
func (h *OrganizerHandler) ListOrganizations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgs, err := h.Orgs.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orgs})
}

// CreateMembershipTier handles POST /v1/organizer/organizations/:id/membership-tiers.
func (h *OrganizerHandler) CreateMembershipTier(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.requireOrganizer(c, orgID, userID); err != nil {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	mt := &model.MembershipTier{OrganizationID: orgID, Name: strings.TrimSpace(body.Name)}
	if err := h.Orgs.CreateMembershipTier(c.Request().Context(), mt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create membership tier failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"membership_tier": mt})
}

// AddMember handles POST /v1/organizer/organizations/:id/members.
func (h *OrganizerHandler) AddMember(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.requireOrganizer(c, orgID, userID); err != nil {
		return err
	}
	var body struct {
		UserID           uint64  `json:"user_id"`
		MembershipTierID *uint64 `json:"membership_tier_id"`
	}
	if err := c.Bind(&body); err != nil || body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	if err := h.Orgs.AddMember(c.Request().Context(), orgID, body.UserID, body.MembershipTierID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add member failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddStaff handles POST /v1/organizer/organizations/:id/staff.
func (h *OrganizerHandler) AddStaff(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orgID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.requireOrganizer(c, orgID, userID); err != nil {
		return err
	}
	var body struct {
		UserID uint64 `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil || body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	if err := h.Orgs.AddStaff(c.Request().Context(), orgID, body.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add staff failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOrganizer enforces organization ownership or staff rights.
// It writes the error response itself and returns it for propagation.
func (h *OrganizerHandler) requireOrganizer(c echo.Context, orgID, userID uint64) error {
	ok, err := h.Orgs.IsOrganizer(c.Request().Context(), orgID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return nil
}

// CreateEvent handles POST /v1/organizer/events. Events start in DRAFT
// unless an explicit valid status is supplied.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		OrganizationID    uint64     `json:"organization_id"`
		Title             string     `json:"title"`
		Visibility        string     `json:"visibility"`
		RequiresTicket    bool       `json:"requires_ticket"`
		MaxAttendees      uint32     `json:"max_attendees"`
		MaxTicketsPerUser *uint32    `json:"max_tickets_per_user"`
		RSVPDeadline      *time.Time `json:"rsvp_deadline"`
		WaitlistOpen      bool       `json:"waitlist_open"`
		VenueID           *uint64    `json:"venue_id"`
		StartsAt          time.Time  `json:"starts_at"`
		EndsAt            time.Time  `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.OrganizationID == 0 || strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id and title are required"})
	}
	if !body.EndsAt.After(body.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	visibility := strings.ToUpper(strings.TrimSpace(body.Visibility))
	switch visibility {
	case model.EventVisibilityPublic, model.EventVisibilityMembersOnly, model.EventVisibilityPrivate:
	case "":
		visibility = model.EventVisibilityPublic
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visibility"})
	}
	if err := h.requireOrganizer(c, body.OrganizationID, userID); err != nil {
		return err
	}
	ev := &model.Event{
		OrganizationID:    body.OrganizationID,
		Title:             strings.TrimSpace(body.Title),
		Status:            model.EventStatusDraft,
		Visibility:        visibility,
		RequiresTicket:    body.RequiresTicket,
		MaxAttendees:      body.MaxAttendees,
		MaxTicketsPerUser: body.MaxTicketsPerUser,
		RSVPDeadline:      body.RSVPDeadline,
		WaitlistOpen:      body.WaitlistOpen,
		VenueID:           body.VenueID,
		StartsAt:          body.StartsAt,
		EndsAt:            body.EndsAt,
	}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"event": ev})
}

// UpdateEventStatus handles PATCH /v1/organizer/events/:id/status.
func (h *OrganizerHandler) UpdateEventStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	switch status {
	case model.EventStatusDraft, model.EventStatusOpen, model.EventStatusClosed, model.EventStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if _, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID); err != nil {
		return respondDomainError(c, err)
	}
	if err := h.Events.UpdateStatus(c.Request().Context(), eventID, status); err != nil {
		return respondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateTier handles POST /v1/organizer/events/:id/tiers.
func (h *OrganizerHandler) CreateTier(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ev, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	if !ev.RequiresTicket {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "event does not take tickets"})
	}
	var body struct {
		Name              string     `json:"name"`
		Visibility        string     `json:"visibility"`
		PurchasableBy     string     `json:"purchasable_by"`
		PaymentMethod     string     `json:"payment_method"`
		PriceCents        uint32     `json:"price_cents"`
		TotalQuantity     *uint32    `json:"total_quantity"`
		SalesStartAt      *time.Time `json:"sales_start_at"`
		SalesEndAt        *time.Time `json:"sales_end_at"`
		MaxTicketsPerUser *uint32    `json:"max_tickets_per_user"`
		SeatMode          string     `json:"seat_mode"`
		VenueSectorID     *uint64    `json:"venue_sector_id"`
		MembershipTierIDs []uint64   `json:"membership_tier_ids"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	tier := &model.TicketTier{
		EventID:           eventID,
		Name:              strings.TrimSpace(body.Name),
		Visibility:        defaultUpper(body.Visibility, model.TierVisibilityPublic),
		PurchasableBy:     defaultUpper(body.PurchasableBy, model.TierPurchasablePublic),
		PaymentMethod:     defaultUpper(body.PaymentMethod, model.PaymentFree),
		PriceCents:        body.PriceCents,
		TotalQuantity:     body.TotalQuantity,
		SalesStartAt:      body.SalesStartAt,
		SalesEndAt:        body.SalesEndAt,
		MaxTicketsPerUser: body.MaxTicketsPerUser,
		SeatMode:          defaultUpper(body.SeatMode, model.SeatModeNone),
		VenueSectorID:     body.VenueSectorID,
		MembershipTierIDs: body.MembershipTierIDs,
	}
	if tier.SeatMode != model.SeatModeNone && tier.VenueSectorID == nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seated tiers require venue_sector_id"})
	}
	if err := h.Tiers.Create(c.Request().Context(), tier); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tier failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"tier": tier})
}

// defaultUpper normalizes an enum-ish body field, falling back when
// empty.
func defaultUpper(v, fallback string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return fallback
	}
	return v
}

// ListEventTickets handles GET /v1/organizer/events/:id/tickets.
func (h *OrganizerHandler) ListEventTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID); err != nil {
		return respondDomainError(c, err)
	}
	tickets, err := h.Tickets.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// ListEventRSVPs handles GET /v1/organizer/events/:id/rsvps.
func (h *OrganizerHandler) ListEventRSVPs(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID); err != nil {
		return respondDomainError(c, err)
	}
	rsvps, err := h.RSVPs.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rsvps})
}

// CreateInvitation handles POST /v1/organizer/events/:id/invitations.
// The dispensation flags default to false; an invitation with no flags
// set still satisfies the invitation requirement of private events.
func (h *OrganizerHandler) CreateInvitation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID); err != nil {
		return respondDomainError(c, err)
	}
	var body struct {
		UserID               uint64  `json:"user_id"`
		TierID               *uint64 `json:"tier_id"`
		WaiveMembership      bool    `json:"waive_membership"`
		WaiveQuestionnaire   bool    `json:"waive_questionnaire"`
		WaivePurchase        bool    `json:"waive_purchase"`
		WaiveRSVPDeadline    bool    `json:"waive_rsvp_deadline"`
		OverrideMaxAttendees bool    `json:"override_max_attendees"`
	}
	if err := c.Bind(&body); err != nil || body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	inv := &model.EventInvitation{
		EventID:              eventID,
		UserID:               body.UserID,
		TierID:               body.TierID,
		WaiveMembership:      body.WaiveMembership,
		WaiveQuestionnaire:   body.WaiveQuestionnaire,
		WaivePurchase:        body.WaivePurchase,
		WaiveRSVPDeadline:    body.WaiveRSVPDeadline,
		OverrideMaxAttendees: body.OverrideMaxAttendees,
	}
	if err := h.Invitations.Create(c.Request().Context(), inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invitation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"invitation": inv})
}

// ListInvitations handles GET /v1/organizer/events/:id/invitations.
func (h *OrganizerHandler) ListInvitations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Events.GetByIDForOrganizer(c.Request().Context(), eventID, userID); err != nil {
		return respondDomainError(c, err)
	}
	invitations, err := h.Invitations.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": invitations})
}
