package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/silent-auction/internal/api"
	"github.com/nhle/silent-auction/internal/format"
	"github.com/nhle/silent-auction/internal/keys"
	"github.com/nhle/silent-auction/internal/lifecycle"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/push"
	"github.com/nhle/silent-auction/internal/registry"
	"github.com/nhle/silent-auction/internal/ui"
	"github.com/nhle/silent-auction/internal/ui/bidform"
	"github.com/nhle/silent-auction/internal/ui/catalogue"
	helpview "github.com/nhle/silent-auction/internal/ui/help"
	"github.com/nhle/silent-auction/internal/ui/toasts"
)

// Backend is the auction API surface the app depends on.
type Backend interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	FetchStatus(ctx context.Context) (model.AuctionStatus, error)
	PlaceBid(ctx context.Context, itemID int, bid api.BidRequest) (*api.BidResult, error)
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCatalogue ViewState = iota
	ViewBid
	ViewHelp
)

// Model is the root Bubble Tea model. It routes messages between the
// catalogue, bid form, and help views, applies push updates to the item
// registry, and drives the auction's terminal transition.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	backend Backend
	reg     *registry.Registry
	channel *push.Channel
	monitor *lifecycle.Monitor

	catalogue catalogue.Model
	bidForm   bidform.Model
	helpView  helpview.Model
	toastFeed toasts.Model

	connState push.State

	// inFlight tracks items with a pending bid submission. Submissions
	// for different items may overlap and complete in any order.
	inFlight map[int]bool

	ready bool
}

// New creates the root application model.
func New(backend Backend, reg *registry.Registry, channel *push.Channel, monitor *lifecycle.Monitor, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()
	flashDuration := cfg.FlashDuration()

	return Model{
		currentView: ViewCatalogue,
		keys:        k,
		backend:     backend,
		reg:         reg,
		channel:     channel,
		monitor:     monitor,
		catalogue:   catalogue.New(reg, backend, k, flashDuration, 80, 24),
		bidForm:     bidform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		toastFeed:   toasts.New(cfg.ToastDuration(), 80),
		connState:   push.StateDisconnected,
		inFlight:    make(map[int]bool),
	}
}

// Init loads the catalogue, fetches the auction status once, and opens
// the push channel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.catalogue.Init(),
		m.monitor.FetchStatus(),
		m.channel.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.catalogue.SetSize(contentWidth, contentHeight)
		m.bidForm.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.toastFeed.SetSize(contentWidth)
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case push.StateMsg:
		m.connState = msg.State
		return m, m.channel.Wait()

	case push.BidUpdateMsg:
		return m.handleBidUpdate(msg.Update)

	case catalogue.LoadedMsg, catalogue.FlashClearedMsg:
		var cmd tea.Cmd
		m.catalogue, cmd = m.catalogue.Update(msg)
		return m, cmd

	case catalogue.BidRequestMsg:
		return m.openBidForm(msg.ItemID)

	case bidform.SubmitMsg:
		m.inFlight[msg.ItemID] = true
		return m, m.submitBid(msg.ItemID, msg.Amount, msg.Contact)

	case bidform.CancelMsg:
		m.currentView = ViewCatalogue
		return m, nil

	case bidResultMsg:
		return m.handleBidResult(msg)

	case lifecycle.StatusMsg:
		if msg.Err != nil {
			// Status is unavailable; the countdown stays blank and
			// bidding remains enabled until the backend says otherwise.
			return m, nil
		}
		closedNow, cmd := m.monitor.HandleStatus(msg.Status)
		if closedNow {
			return m.enterClosedState()
		}
		return m, cmd

	case lifecycle.TickMsg:
		closedNow, cmd := m.monitor.HandleTick()
		if closedNow {
			return m.enterClosedState()
		}
		return m, cmd

	case toasts.RemoveMsg:
		var cmd tea.Cmd
		m.toastFeed, cmd = m.toastFeed.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			m.channel.Stop()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewCatalogue {
				m.channel.Stop()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewBid {
				// The form owns text input; don't intercept.
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "esc":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case "r":
			if m.currentView == ViewCatalogue {
				return m, m.catalogue.LoadCatalogue()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCatalogue:
		m.catalogue, cmd = m.catalogue.Update(msg)
	case ViewBid:
		m.bidForm, cmd = m.bidForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// handleBidUpdate applies one push frame: the registry is mutated, the
// item's row refreshes with a one-shot flash, and an informational
// notification names the item and price. Unknown items are dropped.
func (m Model) handleBidUpdate(update model.BidUpdate) (tea.Model, tea.Cmd) {
	rearm := m.channel.Wait()

	if !m.reg.ApplyBidUpdate(update.ItemID, update.CurrentBid) {
		return m, rearm
	}

	var refresh tea.Cmd
	m.catalogue, refresh = m.catalogue.ApplyUpdate(update.ItemID)

	// Keep an open bid form's floor and placeholder current.
	if m.bidForm.Item().ID == update.ItemID {
		if item, ok := m.reg.Get(update.ItemID); ok {
			m.bidForm = m.bidForm.UpdateItem(item)
		}
	}

	var toastCmd tea.Cmd
	m.toastFeed, toastCmd = m.toastFeed.Post(
		fmt.Sprintf("New bid on %q: %s", update.ItemName, format.Currency(update.CurrentBid)),
		model.SeverityInfo,
	)

	return m, tea.Batch(refresh, toastCmd, rearm)
}

// openBidForm switches to the bid form for the given item.
func (m Model) openBidForm(itemID int) (tea.Model, tea.Cmd) {
	if m.monitor.Closed() {
		return m, nil
	}
	item, ok := m.reg.Get(itemID)
	if !ok {
		return m, nil
	}

	m.previousView = m.currentView
	m.currentView = ViewBid
	return m, m.bidForm.Start(item)
}

// enterClosedState performs the terminal transition: every bid affordance
// is disabled and relabeled, the pending reconnect (if any) is cancelled,
// and the closure notice posts exactly once. Reaching this state twice is
// harmless; Close() only fires the first time.
func (m Model) enterClosedState() (tea.Model, tea.Cmd) {
	m.catalogue = m.catalogue.SetClosed()
	m.channel.DisableReconnect()

	if m.currentView == ViewBid {
		m.currentView = ViewCatalogue
	}

	var toastCmd tea.Cmd
	m.toastFeed, toastCmd = m.toastFeed.Post(
		"The auction has closed. Thank you for participating!",
		model.SeverityInfo,
	)
	return m, toastCmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		"Silent Auction",
		m.monitor.CountdownLabel(),
		m.connState.String(),
	)
	content := m.renderContent()
	if feed := m.toastFeed.View(); feed != "" {
		content = content + "\n" + feed
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBid:
		return m.bidForm.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.catalogue.View()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewBid:
		if m.bidForm.Pending() {
			return "placing bid…"
		}
		return "enter submit | esc cancel"
	default:
		if m.monitor.Closed() {
			return "auction closed | q quit | ? help"
		}
		return "q quit | ? help | enter bid | r reload"
	}
}
