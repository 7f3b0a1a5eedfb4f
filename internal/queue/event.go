// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketCreatedEvent is published once per ticket after an allocation
// transaction commits. It carries enough denormalized context for
// downstream consumers to log or notify without querying the primary
// database.
type TicketCreatedEvent struct {
	TicketID   uint64  `json:"ticket_id"`
	Serial     string  `json:"serial"`
	EventID    uint64  `json:"event_id"`
	EventTitle string  `json:"event_title"`
	TierID     uint64  `json:"tier_id"`
	TierName   string  `json:"tier_name"`
	UserID     *uint64 `json:"user_id,omitempty"`
	GuestEmail *string `json:"guest_email,omitempty"`
	SeatLabel  *string `json:"seat,omitempty"`
	Status     string  `json:"status"`
	PriceCents uint32  `json:"price_cents"`
	CreatedAt  string  `json:"created_at"`
}
