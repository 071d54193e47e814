package app

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/silent-auction/internal/api"
	"github.com/nhle/silent-auction/internal/lifecycle"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/push"
	"github.com/nhle/silent-auction/internal/registry"
	"github.com/nhle/silent-auction/internal/ui/bidform"
	"github.com/nhle/silent-auction/internal/ui/catalogue"
	"github.com/nhle/silent-auction/tests/testutil"
)

// fixture wires a root model against a fake backend with a loaded
// catalogue of two items.
type fixture struct {
	model   Model
	backend *testutil.Backend
	reg     *registry.Registry
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := testutil.NewBackend()
	backend.Items = []model.Item{
		{ID: 1, Name: "Vintage Watch", Description: "A watch", StartingBid: 50, CurrentBid: 100},
		{ID: 2, Name: "Signed Ball", Description: "A ball", StartingBid: 20, CurrentBid: 20},
	}

	clock := clockwork.NewFakeClock()
	reg := registry.New()
	channel := push.New("ws://127.0.0.1:1/ws", 3*time.Second, clock)
	monitor := lifecycle.New(backend, clock)
	cfg, err := model.LoadConfig("/nonexistent/config.yaml")
	require.NoError(t, err)

	m := New(backend, reg, channel, monitor, cfg)

	updated, _ := m.Update(catalogue.LoadedMsg{Items: backend.Items})
	m = updated.(Model)

	return &fixture{model: m, backend: backend, reg: reg, clock: clock}
}

// update drives one message through the root model.
func (f *fixture) update(msg tea.Msg) tea.Cmd {
	updated, cmd := f.model.Update(msg)
	f.model = updated.(Model)
	return cmd
}

// submit opens the bid form for an item and submits a proposal, running
// the resulting request command synchronously.
func (f *fixture) submit(t *testing.T, itemID int, amount float64, contact string) {
	t.Helper()

	f.update(catalogue.BidRequestMsg{ItemID: itemID})
	cmd := f.update(bidform.SubmitMsg{ItemID: itemID, Amount: amount, Contact: contact})
	require.NotNil(t, cmd, "a submission must dispatch the request")

	f.update(cmd())
}

func TestSuccessfulBid(t *testing.T) {
	f := newFixture(t)
	f.backend.BidResult = &api.BidResult{
		ItemID: 1, ItemName: "Vintage Watch", CurrentBid: 105, BidID: 7,
	}

	f.submit(t, 1, 105, "alice@example.com")

	require.Len(t, f.backend.PlacedBids, 1)
	assert.Equal(t, api.BidRequest{Amount: 105, Contact: "alice@example.com"}, f.backend.PlacedBids[0])

	// One success notification carrying the backend-confirmed price.
	assert.Equal(t, []string{"Bid of $105.00 placed successfully!"}, f.model.toastFeed.Messages())

	// Fields emptied, inline error cleared, affordance re-enabled.
	assert.Empty(t, f.model.bidForm.Amount())
	assert.Empty(t, f.model.bidForm.Contact())
	assert.Empty(t, f.model.bidForm.InlineError())
	assert.False(t, f.model.bidForm.Pending())
	assert.Equal(t, ViewCatalogue, f.model.currentView)
	assert.Empty(t, f.model.inFlight)

	// The registry is not written from the response; the push echo is
	// the single writer for price state.
	item, _ := f.reg.Get(1)
	assert.Equal(t, 100.0, item.CurrentBid)
}

func TestRejectedBidSimpleMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.BidErr = &api.BidError{
		StatusCode: http.StatusBadRequest,
		Messages:   []string{"Bid too low"},
	}

	f.submit(t, 1, 101, "alice@example.com")

	assert.Equal(t, "Bid too low", f.model.bidForm.InlineError())
	assert.Equal(t, []string{"Bid too low"}, f.model.toastFeed.Messages())
	assert.False(t, f.model.bidForm.Pending())
}

func TestRejectedBidFieldErrors(t *testing.T) {
	f := newFixture(t)
	f.backend.BidErr = &api.BidError{
		StatusCode: http.StatusUnprocessableEntity,
		Messages:   []string{"amount must be positive", "contact required"},
	}

	f.submit(t, 1, 105, "alice@example.com")

	assert.Equal(t, "amount must be positive. contact required", f.model.bidForm.InlineError())
}

func TestNetworkFailurePostsNoNotification(t *testing.T) {
	f := newFixture(t)
	f.backend.BidErr = assert.AnError

	f.submit(t, 1, 105, "alice@example.com")

	assert.Equal(t, "Network error. Please try again.", f.model.bidForm.InlineError())
	assert.Zero(t, f.model.toastFeed.Count(), "notifications are reserved for completed responses")
	assert.False(t, f.model.bidForm.Pending())
}

func TestPushUpdateMutatesRegistryAndNotifies(t *testing.T) {
	f := newFixture(t)

	f.update(push.BidUpdateMsg{Update: model.BidUpdate{
		ItemID: 1, CurrentBid: 130, ItemName: "Vintage Watch",
	}})

	item, _ := f.reg.Get(1)
	assert.Equal(t, 130.0, item.CurrentBid)
	assert.Equal(t, []string{`New bid on "Vintage Watch": $130.00`}, f.model.toastFeed.Messages())
}

func TestPushUpdateForUnknownItemIsDropped(t *testing.T) {
	f := newFixture(t)

	f.update(push.BidUpdateMsg{Update: model.BidUpdate{
		ItemID: 42, CurrentBid: 999, ItemName: "Ghost",
	}})

	assert.Equal(t, 2, f.reg.Len())
	assert.Zero(t, f.model.toastFeed.Count())
}

func TestClosedStatusDisablesBidding(t *testing.T) {
	f := newFixture(t)

	f.update(lifecycle.StatusMsg{Status: model.AuctionStatus{
		IsOpen: false,
		EndsAt: f.clock.Now().Add(time.Hour),
	}})

	assert.True(t, f.model.catalogue.Closed())
	assert.Equal(t,
		[]string{"The auction has closed. Thank you for participating!"},
		f.model.toastFeed.Messages(),
	)

	// Opening the bid form is refused after close.
	f.update(catalogue.BidRequestMsg{ItemID: 1})
	assert.Equal(t, ViewCatalogue, f.model.currentView)
}

func TestClosureTransitionIsIdempotent(t *testing.T) {
	f := newFixture(t)

	closed := model.AuctionStatus{IsOpen: false, EndsAt: f.clock.Now()}
	f.update(lifecycle.StatusMsg{Status: closed})
	f.update(lifecycle.StatusMsg{Status: closed})
	f.update(lifecycle.TickMsg{Time: f.clock.Now()})

	assert.Equal(t, 1, f.model.toastFeed.Count(), "closure notice posts exactly once")
	assert.True(t, f.model.catalogue.Closed())
}

func TestCountdownExpiryClosesAuction(t *testing.T) {
	f := newFixture(t)

	f.update(lifecycle.StatusMsg{Status: model.AuctionStatus{
		IsOpen: true,
		EndsAt: f.clock.Now().Add(2 * time.Second),
	}})
	assert.False(t, f.model.catalogue.Closed())

	f.clock.Advance(3 * time.Second)
	f.update(lifecycle.TickMsg{Time: f.clock.Now()})

	assert.True(t, f.model.catalogue.Closed())
	assert.Equal(t, 1, f.model.toastFeed.Count())
}

func TestPushUpdateAfterCloseDoesNotReenable(t *testing.T) {
	f := newFixture(t)

	f.update(lifecycle.StatusMsg{Status: model.AuctionStatus{IsOpen: false, EndsAt: f.clock.Now()}})
	require.True(t, f.model.catalogue.Closed())

	f.update(push.BidUpdateMsg{Update: model.BidUpdate{
		ItemID: 1, CurrentBid: 200, ItemName: "Vintage Watch",
	}})

	// The late echo still displays, but every affordance stays disabled.
	item, _ := f.reg.Get(1)
	assert.Equal(t, 200.0, item.CurrentBid)
	assert.True(t, f.model.catalogue.Closed())

	f.update(catalogue.BidRequestMsg{ItemID: 1})
	assert.Equal(t, ViewCatalogue, f.model.currentView)
}

func TestStatusFetchErrorDegradesGracefully(t *testing.T) {
	f := newFixture(t)

	f.update(lifecycle.StatusMsg{Err: assert.AnError})

	assert.False(t, f.model.catalogue.Closed())
	assert.Zero(t, f.model.toastFeed.Count())
}

func TestConnectionIndicatorTracksChannelState(t *testing.T) {
	f := newFixture(t)

	f.update(push.StateMsg{State: push.StateConnected})
	assert.Equal(t, push.StateConnected, f.model.connState)

	f.update(push.StateMsg{State: push.StateDisconnected})
	assert.Equal(t, push.StateDisconnected, f.model.connState)
}

func TestConcurrentSubmissionsForDifferentItems(t *testing.T) {
	f := newFixture(t)
	f.backend.BidResult = &api.BidResult{ItemID: 2, ItemName: "Signed Ball", CurrentBid: 45}

	// Item 1's submission is still in flight when item 2's settles.
	f.update(catalogue.BidRequestMsg{ItemID: 1})
	f.update(bidform.SubmitMsg{ItemID: 1, Amount: 105, Contact: "a@b.c"})
	require.True(t, f.model.inFlight[1])

	cmd := f.update(bidform.SubmitMsg{ItemID: 2, Amount: 45, Contact: "a@b.c"})
	f.update(cmd())

	assert.False(t, f.model.inFlight[2])
	assert.True(t, f.model.inFlight[1], "item 1's submission is unaffected")
}
