package bidform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/silent-auction/internal/format"
	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/theme"
)

// SubmitMsg is dispatched when the user submits a bid proposal.
type SubmitMsg struct {
	ItemID  int
	Amount  float64
	Contact string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	amount  string
	contact string
}

// Model is the Bubble Tea model for the per-item bid form. The form
// validates only advisory preconditions locally; the backend's rejection
// is the real gate.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	item    model.Item
	pending bool

	// inlineError is the rejection or network-failure text scoped to
	// the current item.
	inlineError string

	width  int
	height int
}

// New creates an idle bid form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start binds the form to an item and clears any previous state.
func (m *Model) Start(item model.Item) tea.Cmd {
	m.item = item
	m.pending = false
	m.inlineError = ""
	m.fb.amount = ""
	m.fb.contact = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the bid form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		// While a submission is in flight the affordance is disabled;
		// key input is swallowed until the outcome arrives.
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// handleSubmit disables the affordance, clears the prior inline error,
// and dispatches the proposal.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.amount), 64)
	contact := strings.TrimSpace(m.fb.contact)
	itemID := m.item.ID

	m.pending = true
	m.inlineError = ""

	return m, func() tea.Msg {
		return SubmitMsg{ItemID: itemID, Amount: amount, Contact: contact}
	}
}

// Accept resets the form after a successful bid: input fields are emptied
// and the affordance re-enables.
func (m Model) Accept() Model {
	m.pending = false
	m.inlineError = ""
	m.fb.amount = ""
	m.fb.contact = ""
	m.form = m.buildForm()
	return m
}

// Reject re-enables the affordance and shows the backend's rejection text
// inline, keeping the user's input for correction.
func (m Model) Reject(message string) Model {
	m.pending = false
	m.inlineError = message
	m.form = m.buildForm()
	return m
}

// Fail re-enables the affordance after a network failure with a generic
// inline message.
func (m Model) Fail() Model {
	return m.Reject("Network error. Please try again.")
}

// UpdateItem refreshes the bound item's price so the floor and
// placeholder track push updates. While a submission is pending the form
// is not rebuilt; the new floor shows once the outcome arrives.
func (m Model) UpdateItem(item model.Item) Model {
	if item.ID != m.item.ID {
		return m
	}
	m.item = item
	if !m.pending && m.form != nil {
		m.form = m.buildForm()
	}
	return m
}

// Pending reports whether a submission is in flight.
func (m Model) Pending() bool {
	return m.pending
}

// InlineError returns the current inline error text, if any.
func (m Model) InlineError() string {
	return m.inlineError
}

// Item returns the item this form is bound to.
func (m Model) Item() model.Item {
	return m.item
}

// Amount returns the current amount field text.
func (m Model) Amount() string {
	return m.fb.amount
}

// Contact returns the current contact field text.
func (m Model) Contact() string {
	return m.fb.contact
}

// View renders the bid form panel.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(fmt.Sprintf("Bid on %s", m.item.Name))
	current := theme.HintStyle.Render(fmt.Sprintf(
		"Current bid %s · minimum next bid %s",
		format.Currency(m.item.CurrentBid),
		format.Currency(m.item.CurrentBid+model.MinBidIncrement),
	))

	var body string
	if m.pending {
		body = theme.HintStyle.Render("Placing…")
	} else {
		body = m.form.View()
	}

	parts := []string{title, current, body}
	if m.inlineError != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.inlineError))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.formWidth()).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	floor := m.item.CurrentBid + model.MinBidIncrement

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount ($)").
				Placeholder(strconv.FormatFloat(floor, 'f', 2, 64)).
				Value(&m.fb.amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Contact").
				Placeholder("Email or phone number").
				Value(&m.fb.contact).
				Validate(validateContact),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 8
	if h < 8 {
		h = 8
	}
	return h
}

// validateAmount requires a finite positive number. The minimum-increment
// rule is enforced by the backend, not here.
func validateAmount(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

func validateContact(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("contact is required")
	}
	return nil
}
