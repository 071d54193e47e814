package lifecycle

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/nhle/silent-auction/internal/model"
)

// fetchTimeout is the maximum time allowed for the one-shot status fetch.
const fetchTimeout = 30 * time.Second

// StatusFetcher retrieves the auction's open/closed state and end time.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (model.AuctionStatus, error)
}

// StatusMsg is a tea.Msg carrying the result of the one-shot status fetch.
type StatusMsg struct {
	Status model.AuctionStatus
	Err    error
}

// TickMsg is a tea.Msg emitted once per second while the countdown runs.
type TickMsg struct {
	Time time.Time
}

// Monitor drives the auction's open -> closed state machine: a one-shot
// status fetch at startup, a local one-second countdown while open, and an
// idempotent terminal transition when time expires or the server reports
// closed. The auction never reopens within a session.
type Monitor struct {
	fetcher StatusFetcher
	clock   clockwork.Clock

	status     model.AuctionStatus
	haveStatus bool
	closed     bool
}

// New creates a Monitor that has not yet fetched status.
func New(fetcher StatusFetcher, clock clockwork.Clock) *Monitor {
	return &Monitor{fetcher: fetcher, clock: clock}
}

// FetchStatus returns a command performing the one-shot status fetch.
func (m *Monitor) FetchStatus() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		status, err := fetcher.FetchStatus(ctx)
		return StatusMsg{Status: status, Err: err}
	}
}

// HandleStatus records the fetched status. It reports whether the terminal
// transition fired now, and otherwise returns the command that starts the
// countdown. A closed or already-expired auction skips countdown setup
// entirely.
func (m *Monitor) HandleStatus(status model.AuctionStatus) (closedNow bool, cmd tea.Cmd) {
	m.status = status
	m.haveStatus = true

	if !status.IsOpen || !m.Remaining().Positive() {
		return m.Close(), nil
	}
	return false, m.tick()
}

// HandleTick re-evaluates the countdown on each tick. Remaining time is
// recomputed from the wall clock rather than decremented, so the countdown
// stays correct across suspend/resume. When time runs out the tick loop
// stops and the terminal transition fires.
func (m *Monitor) HandleTick() (closedNow bool, cmd tea.Cmd) {
	if m.closed {
		return false, nil
	}
	if !m.Remaining().Positive() {
		return m.Close(), nil
	}
	return false, m.tick()
}

// Close performs the terminal transition. It is safe to invoke more than
// once; only the first call reports true, so closure side effects (the
// single closure notification) happen exactly once.
func (m *Monitor) Close() bool {
	if m.closed {
		return false
	}
	m.closed = true
	return true
}

// Closed reports whether the auction has reached the terminal state.
func (m *Monitor) Closed() bool {
	return m.closed
}

// Remaining returns the time left until the auction ends, clamped at zero.
func (m *Monitor) Remaining() Remaining {
	if !m.haveStatus {
		return 0
	}
	d := m.status.EndsAt.Sub(m.clock.Now())
	if d < 0 {
		d = 0
	}
	return Remaining(d)
}

// CountdownLabel renders the header countdown text. Before the status
// fetch resolves it returns an empty string.
func (m *Monitor) CountdownLabel() string {
	if m.closed {
		return "Auction closed"
	}
	if !m.haveStatus {
		return ""
	}
	return m.Remaining().Label()
}

// tick returns the next one-second countdown command.
func (m *Monitor) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// Remaining is a countdown duration with display helpers.
type Remaining time.Duration

// Positive reports whether any time is left.
func (r Remaining) Positive() bool {
	return r > 0
}

// Label formats the duration as "Closes in Xh Ym Zs".
func (r Remaining) Label() string {
	d := time.Duration(r)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("Closes in %dh %dm %ds", h, m, s)
}
