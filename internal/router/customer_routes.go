package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterCustomer registers the participation endpoints. Any
// authenticated role may participate; administrators additionally get
// the ?bypass=true escape hatch evaluated in the handlers.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleOrganizer, model.RoleAdmin))
	for _, m := range mw {
		g.Use(m)
	}

	g.GET("/events/:id/eligibility", h.CheckEligibility)
	g.POST("/events/:id/rsvp", h.RSVP)
	g.POST("/events/:id/checkout", h.Checkout)
	g.POST("/events/:id/checkout/batch", h.CheckoutBatch)
	g.GET("/my-tickets", h.MyTickets)
	g.DELETE("/tickets/:id", h.CancelTicket)
}
