package api

import (
	"encoding/json"
	"strings"
)

// BidRequest is the body of POST /items/{id}/bid.
type BidRequest struct {
	Amount  float64 `json:"amount"`
	Contact string  `json:"contact"`
}

// BidResult is returned after an accepted bid. The push channel broadcasts
// the same shape to every connected client, including the bidder.
type BidResult struct {
	ItemID     int     `json:"item_id"`
	ItemName   string  `json:"item_name"`
	CurrentBid float64 `json:"current_bid"`
	BidID      int     `json:"bid_id"`
}

// statusResponse is the wire form of GET /auction/status. EndsAt is an
// ISO-8601 timestamp that may omit the timezone offset.
type statusResponse struct {
	IsOpen bool   `json:"is_open"`
	EndsAt string `json:"ends_at"`
}

// genericErrorText replaces error payloads whose shape we do not recognize.
const genericErrorText = "Something went wrong."

// errorResponse is the backend's rejection payload. The detail field comes
// in two shapes: a plain message string for domain rejections, or a list of
// {msg} entries for field-level validation failures.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// fieldError is one entry of the list-shaped detail payload.
type fieldError struct {
	Msg string `json:"msg"`
}

// detailMessages decodes the two-shaped detail payload into the list of
// human-readable messages it carries. Unrecognized shapes degrade to a
// single generic message rather than failing.
func (e errorResponse) detailMessages() []string {
	if len(e.Detail) == 0 {
		return []string{genericErrorText}
	}

	var simple string
	if err := json.Unmarshal(e.Detail, &simple); err == nil {
		return []string{simple}
	}

	var fields []fieldError
	if err := json.Unmarshal(e.Detail, &fields); err == nil && len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, f.Msg)
		}
		return msgs
	}

	return []string{genericErrorText}
}

// BidError is a bid rejection from the backend: the request completed and
// the server declined it. Transport failures are never a BidError, so
// callers can distinguish "rejected" from "no response obtained".
type BidError struct {
	// StatusCode is the HTTP status of the rejection response.
	StatusCode int

	// Messages holds the decoded rejection text, one entry per
	// field-level validation error, or a single entry for plain
	// rejections.
	Messages []string
}

func (e *BidError) Error() string {
	return strings.Join(e.Messages, ". ")
}
