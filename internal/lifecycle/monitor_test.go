package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/silent-auction/internal/model"
)

type stubFetcher struct {
	status model.AuctionStatus
	err    error
}

func (s stubFetcher) FetchStatus(ctx context.Context) (model.AuctionStatus, error) {
	return s.status, s.err
}

func TestHandleStatusOpenStartsCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := New(stubFetcher{}, clock)

	closedNow, cmd := m.HandleStatus(model.AuctionStatus{
		IsOpen: true,
		EndsAt: clock.Now().Add(2 * time.Hour),
	})

	assert.False(t, closedNow)
	assert.NotNil(t, cmd, "an open auction should arm the tick loop")
	assert.False(t, m.Closed())
	assert.Equal(t, "Closes in 2h 0m 0s", m.CountdownLabel())
}

func TestHandleStatusAlreadyClosed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := New(stubFetcher{}, clock)

	closedNow, cmd := m.HandleStatus(model.AuctionStatus{
		IsOpen: false,
		EndsAt: clock.Now().Add(time.Hour),
	})

	assert.True(t, closedNow)
	assert.Nil(t, cmd, "a closed auction skips countdown setup")
	assert.True(t, m.Closed())
	assert.Equal(t, "Auction closed", m.CountdownLabel())
}

func TestHandleStatusOpenButExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := New(stubFetcher{}, clock)

	closedNow, cmd := m.HandleStatus(model.AuctionStatus{
		IsOpen: true,
		EndsAt: clock.Now().Add(-time.Minute),
	})

	assert.True(t, closedNow)
	assert.Nil(t, cmd)
}

func TestTickRecomputesFromWallClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := New(stubFetcher{}, clock)

	m.HandleStatus(model.AuctionStatus{
		IsOpen: true,
		EndsAt: clock.Now().Add(10 * time.Second),
	})

	// A long suspension between ticks must not stretch the countdown:
	// remaining time comes from the wall clock, not a counter.
	clock.Advance(9 * time.Second)
	closedNow, cmd := m.HandleTick()
	assert.False(t, closedNow)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Closes in 0h 0m 1s", m.CountdownLabel())

	clock.Advance(5 * time.Second)
	closedNow, cmd = m.HandleTick()
	assert.True(t, closedNow)
	assert.Nil(t, cmd, "tick loop stops at zero")
	assert.True(t, m.Closed())
}

func TestCloseIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := New(stubFetcher{}, clock)

	require.True(t, m.Close(), "first close fires the transition")
	assert.False(t, m.Close(), "second close must not re-fire")
	assert.True(t, m.Closed())

	// Ticks after close are inert.
	closedNow, cmd := m.HandleTick()
	assert.False(t, closedNow)
	assert.Nil(t, cmd)
}

func TestFetchStatusCommand(t *testing.T) {
	clock := clockwork.NewFakeClock()
	want := model.AuctionStatus{IsOpen: true, EndsAt: clock.Now().Add(time.Hour)}
	m := New(stubFetcher{status: want}, clock)

	msg := m.FetchStatus()()
	statusMsg, ok := msg.(StatusMsg)
	require.True(t, ok)
	require.NoError(t, statusMsg.Err)
	assert.Equal(t, want, statusMsg.Status)
}

func TestCountdownLabelBeforeStatus(t *testing.T) {
	m := New(stubFetcher{}, clockwork.NewFakeClock())
	assert.Empty(t, m.CountdownLabel())
}

func TestRemainingLabel(t *testing.T) {
	r := Remaining(3*time.Hour + 25*time.Minute + 7*time.Second)
	assert.Equal(t, "Closes in 3h 25m 7s", r.Label())
}
