package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestHandleMessageAppendsLogLine(t *testing.T) {
	dir := chdirTemp(t)

	uid := uint64(42)
	seat := "A-12"
	ev := TicketCreatedEvent{
		TicketID:   7,
		Serial:     "abc-123",
		EventID:    1,
		EventTitle: "Launch Party",
		TierID:     2,
		TierName:   "Early Bird",
		UserID:     &uid,
		SeatLabel:  &seat,
		Status:     "ACTIVE",
		PriceCents: 2500,
		CreatedAt:  "2025-06-01T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tickets.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "ticket_id=7")
	assert.Contains(t, line, "serial=abc-123")
	assert.Contains(t, line, `event="Launch Party"`)
	assert.Contains(t, line, "user_id=42")
	assert.Contains(t, line, "seat=A-12")
	assert.Contains(t, line, "price=2500 cents")
}

func TestHandleMessageGuestTicket(t *testing.T) {
	dir := chdirTemp(t)

	email := "guest@example.com"
	body, err := json.Marshal(TicketCreatedEvent{TicketID: 9, GuestEmail: &email, Status: "PENDING"})
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tickets.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `guest="guest@example.com"`)
	assert.Contains(t, string(data), "seat=-")
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
	chdirTemp(t)
	assert.Error(t, handleMessage([]byte("{not json")))
}
