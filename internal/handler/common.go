// Package handler exposes the HTTP surface: authentication, public
// browsing, customer participation and organizer administration.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/eligibility"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role placed in the context by the JWT middleware.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// respondDomainError maps service, allocation and repository errors to
// HTTP responses. Unknown errors become opaque 500s.
func respondDomainError(c echo.Context, err error) error {
	var denied *eligibility.DeniedError
	if errors.As(err, &denied) {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":    "participation denied",
			"decision": denied.Decision,
		})
	}
	var capErr *allocation.CapacityError
	if errors.As(err, &capErr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     capErr.Error(),
			"scope":     capErr.Scope,
			"remaining": capErr.Remaining,
		})
	}
	var cfgErr *allocation.ConfigurationError
	if errors.As(err, &cfgErr) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": cfgErr.Error()})
	}

	switch {
	case errors.Is(err, allocation.ErrAlreadyHasTicket),
		errors.Is(err, allocation.ErrNotEnoughSeats),
		errors.Is(err, allocation.ErrSeatUnavailable),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, allocation.ErrSeatSelectionRequired),
		errors.Is(err, service.ErrInvalidRSVPAnswer),
		errors.Is(err, service.ErrRSVPNotApplicable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTierNotPurchasable),
		errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrTierNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrVenueNotFound),
		errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
