package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// BrokerNotifier turns committed ticket IDs into TicketCreatedEvent
// messages on RabbitMQ. Notifications run on their own goroutine with
// a fresh context: the request that created the ticket has already
// committed and must not be delayed or failed by broker trouble.
type BrokerNotifier struct {
	tickets *repository.TicketRepo
}

// NewBrokerNotifier returns a notifier reading ticket details through
// the given repository.
func NewBrokerNotifier(tickets *repository.TicketRepo) *BrokerNotifier {
	return &BrokerNotifier{tickets: tickets}
}

// NotifyTicketCreated loads the ticket's denormalized details and
// publishes them. Fire and forget: all failures are logged only.
func (n *BrokerNotifier) NotifyTicketCreated(ticketID uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := n.tickets.Describe(ctx, ticketID)
		if err != nil {
			log.Printf("notifier: describe ticket %d failed: %v", ticketID, err)
			return
		}
		ev := queue.TicketCreatedEvent{
			TicketID:   d.Ticket.ID,
			Serial:     d.Ticket.Serial,
			EventID:    d.Ticket.EventID,
			EventTitle: d.EventTitle,
			TierID:     d.Ticket.TierID,
			TierName:   d.TierName,
			UserID:     d.Ticket.UserID,
			GuestEmail: d.Ticket.GuestEmail,
			SeatLabel:  d.SeatLabel,
			Status:     d.Ticket.Status,
			PriceCents: d.Ticket.PriceCents,
			CreatedAt:  d.Ticket.CreatedAt.UTC().Format(time.RFC3339),
		}
		_ = PublishTicketCreated(ctx, ev)
	}()
}
