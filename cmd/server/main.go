package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: caching and rate limiting degrade to no-ops
	// when the client cannot be built.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	orgs := repository.NewOrganizationRepo(db)
	events := repository.NewEventRepo(db)
	tiers := repository.NewTierRepo(db)
	tickets := repository.NewTicketRepo(db)
	rsvps := repository.NewRSVPRepo(db)
	invitations := repository.NewInvitationRepo(db)
	venues := repository.NewVenueRepo(db)
	snapshots := repository.NewSnapshotRepo(db)
	store := repository.NewAllocationStore(db)

	// Allocation engine and participation service.
	payments := service.NewHostedPaymentProvider(cfg.PaymentBaseURL)
	notifier := service.NewBrokerNotifier(tickets)
	engine := allocation.NewEngine(store, payments, notifier)
	ticketing := service.NewTicketing(snapshots, engine, tickets, rsvps)

	// Background consumer logs created tickets; it reconnects forever
	// on its own goroutine.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(rateLimit)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, &handler.PublicHandler{Events: events, Tiers: tiers, Venues: venues}, cache)
	router.RegisterCustomer(e, handler.NewCustomerHandler(ticketing), cfg.JWTSecret)
	router.RegisterOrganizer(e,
		handler.NewOrganizerHandler(orgs, events, tiers, tickets, rsvps, invitations),
		handler.NewVenueHandler(orgs, venues),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
