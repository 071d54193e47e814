package testutil

import (
	"context"
	"sync"

	"github.com/nhle/silent-auction/internal/api"
	"github.com/nhle/silent-auction/internal/model"
)

// Backend is an in-memory fake of the auction API used by tests. Each
// response is configured per call site; PlaceBid records the submissions
// it receives.
type Backend struct {
	mu sync.Mutex

	Items     []model.Item
	ItemsErr  error
	Status    model.AuctionStatus
	StatusErr error

	// BidResult and BidErr determine the next PlaceBid outcome.
	BidResult *api.BidResult
	BidErr    error

	// PlacedBids records every submission in arrival order.
	PlacedBids []api.BidRequest
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	return &Backend{}
}

// ListItems returns the configured catalogue.
func (b *Backend) ListItems(ctx context.Context) ([]model.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ItemsErr != nil {
		return nil, b.ItemsErr
	}
	return b.Items, nil
}

// FetchStatus returns the configured auction status.
func (b *Backend) FetchStatus(ctx context.Context) (model.AuctionStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Status, b.StatusErr
}

// PlaceBid records the submission and returns the configured outcome.
func (b *Backend) PlaceBid(ctx context.Context, itemID int, bid api.BidRequest) (*api.BidResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PlacedBids = append(b.PlacedBids, bid)
	if b.BidErr != nil {
		return nil, b.BidErr
	}
	return b.BidResult, nil
}
