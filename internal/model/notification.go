package model

import "time"

// Severity classifies a notification for display styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient user-facing message. Ownership passes to the
// notification feed at creation; the feed removes it after a fixed duration.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Severity controls the display style (use Severity* constants).
	Severity Severity `json:"severity"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
