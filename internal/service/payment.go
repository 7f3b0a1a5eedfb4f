package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// HostedPaymentProvider creates checkout sessions against an external
// hosted payment page. No ticket rows exist until the payment webhook
// confirms the session; the engine only ever sees the opaque handle.
type HostedPaymentProvider struct {
	// BaseURL is the checkout page root, e.g. "https://pay.example.com".
	BaseURL string
}

// NewHostedPaymentProvider returns a provider for the given page root.
func NewHostedPaymentProvider(baseURL string) *HostedPaymentProvider {
	return &HostedPaymentProvider{BaseURL: strings.TrimRight(baseURL, "/")}
}

// CreateCheckoutSession mints a session reference and the redirect URL
// for paying quantity tickets of the tier.
func (p *HostedPaymentProvider) CreateCheckoutSession(ctx context.Context, ev *model.Event, tier *model.TicketTier, userID uint64, quantity uint32, priceOverrideCents *uint32) (allocation.RedirectHandle, error) {
	unit := tier.PriceCents
	if priceOverrideCents != nil {
		unit = *priceOverrideCents
	}
	ref := uuid.NewString()
	url := fmt.Sprintf("%s/checkout/%s?event=%d&tier=%d&qty=%d&amount=%d",
		p.BaseURL, ref, ev.ID, tier.ID, quantity, uint64(unit)*uint64(quantity))
	return allocation.RedirectHandle{URL: url, Reference: ref}, nil
}
