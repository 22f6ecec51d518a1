package models

import "time"

// Link represents a shortened URL and its click counter.
type Link struct {
	// ID is the surrogate key of the link record.
	ID int64
	// ShortCode is the public identifier the link is resolved by.
	ShortCode string
	// TargetURL is the destination the short code redirects to.
	TargetURL string
	// Clicks is the number of successful redirects through the short code.
	Clicks int64
	// CreatedAt is set once when the link is created.
	CreatedAt time.Time
}
