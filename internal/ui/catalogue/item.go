package catalogue

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/silent-auction/internal/format"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/theme"
)

// Entry wraps a model.Item so it can be used in a bubbles/list.
type Entry struct {
	Item model.Item
}

// FilterValue returns the string used for fuzzy filtering.
func (e Entry) FilterValue() string { return e.Item.Name }

// viewState holds render state shared by reference between the catalogue
// Model and its delegate, so price flashes and the closed flag survive
// Bubble Tea model copies.
type viewState struct {
	// flashes marks items whose price was just updated by the push
	// channel; the highlight clears on a timer.
	flashes map[int]bool

	// closed disables every bid affordance once the auction ends.
	closed bool
}

// Delegate renders one catalogue entry as a two-line card.
type Delegate struct {
	state *viewState
}

// Height returns the number of lines each entry takes.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between entries.
func (d Delegate) Spacing() int { return 1 }

// Update handles per-entry messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single catalogue entry.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Entry)
	if !ok {
		return
	}

	it := entry.Item
	isSelected := index == m.Index()

	title := fmt.Sprintf("#%02d %s — %s", it.ID, it.Name, it.Description)

	price := theme.PriceStyle.Render(format.Currency(it.CurrentBid))
	if d.state.flashes[it.ID] {
		price = theme.FlashStyle.Render(format.Currency(it.CurrentBid))
	}

	hint := theme.HintStyle.Render(fmt.Sprintf(
		"starts at %s · min next bid %s",
		format.Currency(it.StartingBid),
		format.Currency(it.CurrentBid+model.MinBidIncrement),
	))

	affordance := theme.HintStyle.Render("enter to bid")
	if d.state.closed {
		affordance = theme.ClosedStyle.Render("Auction Closed")
	}

	detail := fmt.Sprintf("%s  %s  %s", price, hint, affordance)

	if isSelected {
		title = theme.SelectedItemStyle.Render(title)
		detail = theme.SelectedItemStyle.Render(detail)
	} else {
		title = theme.ListItemStyle.Render(title)
		detail = theme.ListItemStyle.Render(detail)
	}

	fmt.Fprint(w, title+"\n"+detail)
}
