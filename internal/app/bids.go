package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/silent-auction/internal/api"
	"github.com/nhle/silent-auction/internal/format"
	"github.com/nhle/silent-auction/internal/model"
)

// submitTimeout is the maximum time allowed for one bid submission.
const submitTimeout = 30 * time.Second

// bidResultMsg carries the outcome of one bid submission. Exactly one of
// result and err is set; err may be a *api.BidError (the backend declined)
// or a transport failure (no response obtained).
type bidResultMsg struct {
	itemID int
	result *api.BidResult
	err    error
}

// submitBid returns a command that performs the request/response cycle
// for one bid. There is no retry: a failed submission requires a fresh
// user action.
func (m Model) submitBid(itemID int, amount float64, contact string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		result, err := backend.PlaceBid(ctx, itemID, api.BidRequest{
			Amount:  amount,
			Contact: contact,
		})
		return bidResultMsg{itemID: itemID, result: result, err: err}
	}
}

// handleBidResult settles one submission. Every outcome re-enables the
// affordance; only completed responses (accepted or declined) post a
// notification.
func (m Model) handleBidResult(msg bidResultMsg) (tea.Model, tea.Cmd) {
	delete(m.inFlight, msg.itemID)
	formBound := m.bidForm.Item().ID == msg.itemID

	if msg.err == nil {
		// Accepted. The registry is deliberately not written here: the
		// authoritative update arrives as the push echo, keeping the
		// channel the single writer for price state.
		if formBound {
			m.bidForm = m.bidForm.Accept()
		}
		if m.currentView == ViewBid && formBound {
			m.currentView = ViewCatalogue
		}

		var toastCmd tea.Cmd
		m.toastFeed, toastCmd = m.toastFeed.Post(
			fmt.Sprintf("Bid of %s placed successfully!", format.Currency(msg.result.CurrentBid)),
			model.SeveritySuccess,
		)
		return m, toastCmd
	}

	var bidErr *api.BidError
	if errors.As(msg.err, &bidErr) {
		// Declined: the rejection text shows inline and as an error
		// notification.
		if formBound {
			m.bidForm = m.bidForm.Reject(bidErr.Error())
		}

		var toastCmd tea.Cmd
		m.toastFeed, toastCmd = m.toastFeed.Post(bidErr.Error(), model.SeverityError)
		return m, toastCmd
	}

	// No response obtained: generic inline message only. Notifications
	// are reserved for responses that completed.
	if formBound {
		m.bidForm = m.bidForm.Fail()
	}
	return m, nil
}
