package toasts

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/silent-auction/internal/model"
	"github.com/nhle/silent-auction/internal/theme"
)

// RemoveMsg is a tea.Msg that expires a single notification after its
// display duration elapses.
type RemoveMsg struct {
	ID string
}

// Model is the transient notification feed. Entries are append-only and
// remove themselves after a fixed duration; there is no cap, no
// deduplication, and no ordering beyond insertion order.
type Model struct {
	entries []model.Notification
	ttl     time.Duration
	width   int
}

// New creates an empty notification feed whose entries live for ttl.
func New(ttl time.Duration, width int) Model {
	return Model{ttl: ttl, width: width}
}

// Post appends a notification and returns the command that schedules its
// removal.
func (m Model) Post(message string, severity model.Severity) (Model, tea.Cmd) {
	entry := model.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	m.entries = append(m.entries, entry)

	id := entry.ID
	return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return RemoveMsg{ID: id}
	})
}

// Update handles expiry messages for the feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if remove, ok := msg.(RemoveMsg); ok {
		for i, entry := range m.entries {
			if entry.ID == remove.ID {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
				break
			}
		}
	}
	return m, nil
}

// View renders the visible notifications as a stacked feed.
func (m Model) View() string {
	if len(m.entries) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, theme.SeverityStyle(entry.Severity).
			MaxWidth(m.width).
			Render(entry.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the feed's render width.
func (m *Model) SetSize(width int) {
	m.width = width
}

// Count returns the number of currently visible notifications.
func (m Model) Count() int {
	return len(m.entries)
}

// Messages returns the visible notification texts in insertion order.
func (m Model) Messages() []string {
	msgs := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		msgs = append(msgs, entry.Message)
	}
	return msgs
}
