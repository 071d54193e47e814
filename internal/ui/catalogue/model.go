package catalogue

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/silent-auction/internal/keys"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/registry"
	"github.com/nhle/silent-auction/internal/theme"
)

// fetchTimeout is the maximum time allowed for a catalogue fetch.
const fetchTimeout = 30 * time.Second

// Fetcher retrieves the full catalogue from the backend.
type Fetcher interface {
	ListItems(ctx context.Context) ([]model.Item, error)
}

// LoadedMsg is sent when the catalogue fetch completes.
type LoadedMsg struct {
	Items []model.Item
	Err   error
}

// BidRequestMsg is sent when the user asks to bid on the selected item.
type BidRequestMsg struct {
	ItemID int
}

// FlashClearedMsg removes the one-shot price highlight from an item.
type FlashClearedMsg struct {
	ItemID int
}

// Model is the catalogue list view. It is the only reader of the item
// registry and re-renders rows when the app applies a push update.
type Model struct {
	list    list.Model
	reg     *registry.Registry
	fetcher Fetcher
	keys    *keys.KeyMap
	state   *viewState

	flashDuration time.Duration
	loading       bool
	loadFailed    bool
	width         int
	height        int
}

// New creates a catalogue view backed by the given registry and fetcher.
func New(reg *registry.Registry, fetcher Fetcher, k *keys.KeyMap, flashDuration time.Duration, width, height int) Model {
	state := &viewState{flashes: make(map[int]bool)}

	l := list.New([]list.Item{}, Delegate{state: state}, width, height)
	l.Title = "Auction Items"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:          l,
		reg:           reg,
		fetcher:       fetcher,
		keys:          k,
		state:         state,
		flashDuration: flashDuration,
		loading:       true,
		width:         width,
		height:        height,
	}
}

// Init returns a command that loads the catalogue.
func (m Model) Init() tea.Cmd {
	return m.LoadCatalogue()
}

// LoadCatalogue returns a tea.Cmd that fetches the full item set.
func (m Model) LoadCatalogue() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := fetcher.ListItems(ctx)
		return LoadedMsg{Items: items, Err: err}
	}
}

// Update handles messages for the catalogue view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadFailed = true
			return m, nil
		}
		m.loadFailed = false
		m.reg.ReplaceFromCatalogue(msg.Items)
		return m, m.rebuildRows()

	case FlashClearedMsg:
		delete(m.state.flashes, msg.ItemID)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Bid) && !m.state.closed {
			entry, ok := m.list.SelectedItem().(Entry)
			if !ok {
				return m, nil
			}
			id := entry.Item.ID
			return m, func() tea.Msg {
				return BidRequestMsg{ItemID: id}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// ApplyUpdate re-renders the row for an item whose bid just changed and
// starts its one-shot flash highlight. The flash set-and-schedule happens
// in one Update pass, so the clear timer can never interleave with a
// partially rendered row.
func (m Model) ApplyUpdate(itemID int) (Model, tea.Cmd) {
	m.state.flashes[itemID] = true
	rebuild := m.rebuildRows()

	flashDuration := m.flashDuration
	clear := tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return FlashClearedMsg{ItemID: itemID}
	})

	return m, tea.Batch(rebuild, clear)
}

// SetClosed disables every bid affordance. Safe to call repeatedly.
func (m Model) SetClosed() Model {
	m.state.closed = true
	return m
}

// Closed reports whether bid affordances are disabled.
func (m Model) Closed() bool {
	return m.state.closed
}

// rebuildRows refreshes the list rows from the registry snapshot.
func (m *Model) rebuildRows() tea.Cmd {
	items := m.reg.Items()
	rows := make([]list.Item, len(items))
	for i, item := range items {
		rows[i] = Entry{Item: item}
	}
	return m.list.SetItems(rows)
}

// View renders the catalogue view.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return style.Render("Loading items…")
	}
	if m.loadFailed {
		return style.Render("Failed to load items.\nPress r to retry.")
	}
	if len(m.list.Items()) == 0 {
		return style.Render("No items are up for auction yet.")
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
