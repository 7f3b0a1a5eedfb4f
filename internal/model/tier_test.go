package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOnSale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"no window", nil, nil, true},
		{"inside window", &before, &after, true},
		{"not started", &after, nil, false},
		{"already ended", nil, &before, false},
		{"open start", nil, &after, true},
		{"open end", &before, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tier := TicketTier{SalesStartAt: tc.start, SalesEndAt: tc.end}
			assert.Equal(t, tc.want, tier.OnSale(now))
		})
	}
}

func TestEffectiveUserCap(t *testing.T) {
	three := uint32(3)
	five := uint32(5)

	t.Run("uncapped", func(t *testing.T) {
		tier := TicketTier{}
		_, capped := tier.EffectiveUserCap(&Event{})
		assert.False(t, capped)
	})
	t.Run("event cap applies", func(t *testing.T) {
		tier := TicketTier{}
		cap, capped := tier.EffectiveUserCap(&Event{MaxTicketsPerUser: &five})
		assert.True(t, capped)
		assert.Equal(t, uint32(5), cap)
	})
	t.Run("tier cap overrides event cap", func(t *testing.T) {
		tier := TicketTier{MaxTicketsPerUser: &three}
		cap, capped := tier.EffectiveUserCap(&Event{MaxTicketsPerUser: &five})
		assert.True(t, capped)
		assert.Equal(t, uint32(3), cap)
	})
}

func TestTicketCountsTowardCapacity(t *testing.T) {
	for _, status := range []string{TicketStatusPending, TicketStatusActive, TicketStatusCheckedIn} {
		assert.True(t, (&Ticket{Status: status}).CountsTowardCapacity(), status)
	}
	assert.False(t, (&Ticket{Status: TicketStatusCancelled}).CountsTowardCapacity())
}

func TestEventHasEnded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, (&Event{EndsAt: now.Add(-time.Minute)}).HasEnded(now))
	assert.False(t, (&Event{EndsAt: now.Add(time.Minute)}).HasEnded(now))
}
