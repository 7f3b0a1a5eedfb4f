package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// VenueHandler exposes organizer endpoints for venues, sectors and
// seats.
type VenueHandler struct {
	Orgs   *repository.OrganizationRepo
	Venues *repository.VenueRepo
}

// NewVenueHandler constructs a VenueHandler and panics if any
// dependency is nil.
func NewVenueHandler(orgs *repository.OrganizationRepo, venues *repository.VenueRepo) *VenueHandler {
	if orgs == nil || venues == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Orgs: orgs, Venues: venues}
}

// CreateVenue handles POST /v1/organizer/venues.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		OrganizationID uint64 `json:"organization_id"`
		Name           string `json:"name"`
		Address        string `json:"address"`
	}
	if err := c.Bind(&body); err != nil || body.OrganizationID == 0 || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id and name are required"})
	}
	ok, err := h.Orgs.IsOrganizer(c.Request().Context(), body.OrganizationID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	v := &model.Venue{
		OrganizationID: body.OrganizationID,
		Name:           strings.TrimSpace(body.Name),
		Address:        strings.TrimSpace(body.Address),
	}
	if err := h.Venues.CreateVenue(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"venue": v})
}

// CreateSector handles POST /v1/organizer/venues/:id/sectors.
func (h *VenueHandler) CreateSector(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v, err := h.requireVenue(c, venueID, userID)
	if err != nil {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	s := &model.VenueSector{VenueID: v.ID, Name: strings.TrimSpace(body.Name)}
	if err := h.Venues.CreateSector(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sector failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"sector": s})
}

// ListSectors handles GET /v1/organizer/venues/:id/sectors.
func (h *VenueHandler) ListSectors(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.requireVenue(c, venueID, userID); err != nil {
		return err
	}
	sectors, err := h.Venues.ListSectors(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": sectors})
}

// GenerateSeats handles POST /v1/organizer/sectors/:id/seats/generate.
// It creates a rows x cols grid of labelled, active seats.
func (h *VenueHandler) GenerateSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.requireSector(c, sectorID, userID); err != nil {
		return err
	}
	var body struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	}
	if err := c.Bind(&body); err != nil || body.Rows <= 0 || body.Cols <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and cols must be positive"})
	}
	if body.Rows*body.Cols > 10000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grid too large"})
	}
	if err := h.Venues.GenerateGrid(c.Request().Context(), sectorID, body.Rows, body.Cols); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": body.Rows * body.Cols})
}

// CreateSeats handles POST /v1/organizer/sectors/:id/seats for
// explicit seat lists with custom labels and positions.
func (h *VenueHandler) CreateSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectorID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.requireSector(c, sectorID, userID); err != nil {
		return err
	}
	var body struct {
		Seats []struct {
			Label string `json:"label"`
			PosX  *int32 `json:"pos_x"`
			PosY  *int32 `json:"pos_y"`
		} `json:"seats"`
	}
	if err := c.Bind(&body); err != nil || len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	seats := make([]model.VenueSeat, 0, len(body.Seats))
	for _, s := range body.Seats {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat label is required"})
		}
		seats = append(seats, model.VenueSeat{
			SectorID: sectorID,
			Label:    label,
			PosX:     s.PosX,
			PosY:     s.PosY,
			IsActive: true,
		})
	}
	if err := h.Venues.CreateSeatsBulk(c.Request().Context(), seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// requireVenue loads the venue and enforces organizer rights on its
// owning organization.
func (h *VenueHandler) requireVenue(c echo.Context, venueID, userID uint64) (*model.Venue, error) {
	v, err := h.Venues.GetVenue(c.Request().Context(), venueID)
	if err != nil {
		return nil, respondDomainError(c, err)
	}
	ok, err := h.Orgs.IsOrganizer(c.Request().Context(), v.OrganizationID, userID)
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ok {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return v, nil
}

// requireSector resolves a sector to its venue and enforces organizer
// rights.
func (h *VenueHandler) requireSector(c echo.Context, sectorID, userID uint64) error {
	venueID, err := h.Venues.SectorVenueID(c.Request().Context(), sectorID)
	if err != nil {
		return respondDomainError(c, err)
	}
	_, err = h.requireVenue(c, venueID, userID)
	return err
}
