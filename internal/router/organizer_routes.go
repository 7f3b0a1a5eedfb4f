package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterOrganizer registers the administration endpoints for
// organizations, events, tiers, invitations and venues. Routes are
// restricted to ORGANIZER and ADMIN; per-resource ownership checks run
// inside the handlers.
func RegisterOrganizer(e *echo.Echo, h *handler.OrganizerHandler, v *handler.VenueHandler, jwtSecret string) {
	g := e.Group("/v1/organizer")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin))

	g.POST("/organizations", h.CreateOrganization)
	g.GET("/organizations", h.ListOrganizations)
	g.POST("/organizations/:id/membership-tiers", h.CreateMembershipTier)
	g.POST("/organizations/:id/members", h.AddMember)
	g.POST("/organizations/:id/staff", h.AddStaff)

	g.POST("/events", h.CreateEvent)
	g.PATCH("/events/:id/status", h.UpdateEventStatus)
	g.POST("/events/:id/tiers", h.CreateTier)
	g.GET("/events/:id/tickets", h.ListEventTickets)
	g.GET("/events/:id/rsvps", h.ListEventRSVPs)
	g.POST("/events/:id/invitations", h.CreateInvitation)
	g.GET("/events/:id/invitations", h.ListInvitations)

	g.POST("/venues", v.CreateVenue)
	g.POST("/venues/:id/sectors", v.CreateSector)
	g.GET("/venues/:id/sectors", v.ListSectors)
	g.POST("/sectors/:id/seats", v.CreateSeats)
	g.POST("/sectors/:id/seats/generate", v.GenerateSeats)
}
