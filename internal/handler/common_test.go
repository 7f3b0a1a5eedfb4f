package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/allocation"
	"github.com/iliyamo/event-ticketing/internal/eligibility"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"eligibility denial", &eligibility.DeniedError{Decision: eligibility.Deny(eligibility.ReasonEventFull, "")}, http.StatusForbidden},
		{"capacity exhausted", &allocation.CapacityError{Scope: allocation.ScopeTier}, http.StatusConflict},
		{"misconfiguration", &allocation.ConfigurationError{Msg: "no sector"}, http.StatusUnprocessableEntity},
		{"already has ticket", allocation.ErrAlreadyHasTicket, http.StatusConflict},
		{"not enough seats", allocation.ErrNotEnoughSeats, http.StatusConflict},
		{"seat taken", allocation.ErrSeatUnavailable, http.StatusConflict},
		{"seat selection required", allocation.ErrSeatSelectionRequired, http.StatusBadRequest},
		{"bad rsvp answer", service.ErrInvalidRSVPAnswer, http.StatusBadRequest},
		{"rsvp on ticketed event", service.ErrRSVPNotApplicable, http.StatusBadRequest},
		{"tier not purchasable", service.ErrTierNotPurchasable, http.StatusForbidden},
		{"event not found", repository.ErrEventNotFound, http.StatusNotFound},
		{"tier not found", repository.ErrTierNotFound, http.StatusNotFound},
		{"ticket not found", repository.ErrTicketNotFound, http.StatusNotFound},
		{"unknown errors stay opaque", errors.New("sql: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, respondDomainError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestRespondDomainErrorCarriesDecision(t *testing.T) {
	c, rec := newTestContext(t)
	denied := &eligibility.DeniedError{Decision: eligibility.Deny(eligibility.ReasonMembersOnly, eligibility.NextStepBecomeMember)}
	require.NoError(t, respondDomainError(c, denied))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"members_only"`)
	assert.Contains(t, rec.Body.String(), `"next_step":"become_member"`)
}

func TestRespondDomainErrorCarriesCapacityScope(t *testing.T) {
	c, rec := newTestContext(t)
	require.NoError(t, respondDomainError(c, &allocation.CapacityError{Scope: allocation.ScopeUser, Remaining: 2}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"scope":"user"`)
	assert.Contains(t, rec.Body.String(), `"remaining":2`)
}

func TestRespondDomainErrorHidesInternalDetail(t *testing.T) {
	c, rec := newTestContext(t)
	require.NoError(t, respondDomainError(c, errors.New("dial tcp 10.0.0.5:3306: i/o timeout")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t)

	// JWT claims decode numbers as float64.
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "17")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c, _ := newTestContext(t)
	c.SetParamNames("id")
	c.SetParamValues("123")

	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), id)

	c.SetParamValues("0")
	_, err = pathID(c, "id")
	assert.Error(t, err)

	c.SetParamValues("abc")
	_, err = pathID(c, "id")
	assert.Error(t, err)
}
