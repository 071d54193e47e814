package model

import "time"

// MinBidIncrement is the advisory minimum raise over the current bid,
// used for placeholder and hint text. The backend enforces the real rule.
const MinBidIncrement = 5.00

// Item is a single auction lot. Items are created once from the catalogue
// fetch and live for the whole session; only CurrentBid changes afterwards.
type Item struct {
	// ID is the backend's identifier for this lot.
	ID int `json:"id"`

	// Name is the display name of the lot.
	Name string `json:"name"`

	// Description is the lot's descriptive text.
	Description string `json:"description"`

	// StartingBid is the opening price. Informational; never changes.
	StartingBid float64 `json:"starting_bid"`

	// CurrentBid is the highest accepted bid so far.
	CurrentBid float64 `json:"current_bid"`
}

// BidUpdate is a single push-channel frame announcing an accepted bid.
type BidUpdate struct {
	ItemID     int     `json:"item_id"`
	CurrentBid float64 `json:"current_bid"`
	ItemName   string  `json:"item_name"`
}

// AuctionStatus is the one-shot status snapshot fetched at startup.
// The auction transitions open -> closed exactly once per session.
type AuctionStatus struct {
	IsOpen bool
	EndsAt time.Time
}
