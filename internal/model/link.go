package model

import (
	"time"

	"github.com/google/uuid"
)

// Link status values as stored. The API reports the derived,
// capitalized form (see DeriveStatus).
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Link represents a shortened URL entity
type Link struct {
	ID             uuid.UUID  `json:"id"`
	OriginalURL    string     `json:"originalURL"`
	ShortCode      string     `json:"shortCode"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Remarks        string     `json:"remarks"`
	TotalClicks    int64      `json:"totalClicks"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedBy      uuid.UUID  `json:"createdBy"`
}

// Expired reports whether the link is past its expiration date at now.
// A link with no expiration date never expires.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpirationDate != nil && now.After(*l.ExpirationDate)
}

// DeriveStatus computes the user-facing status from the expiration
// date. The stored status column is a cache only and must not be
// consulted where correctness matters.
func (l *Link) DeriveStatus(now time.Time) string {
	if l.Expired(now) {
		return "Inactive"
	}
	return "Active"
}

// CreateLinkRequest represents the request body for creating a short link
type CreateLinkRequest struct {
	OriginalURL    string     `json:"originalURL" binding:"required"`
	Remarks        string     `json:"remarks" binding:"required"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// CreateLinkResponse represents the response for a created short link
type CreateLinkResponse struct {
	ShortURL string `json:"shortURL"`
}

// UpdateLinkRequest represents a partial link update. Nil fields are
// left unchanged; only the destination, remarks and expiration date
// are mutable.
type UpdateLinkRequest struct {
	OriginalURL    *string    `json:"originalURL"`
	Remarks        *string    `json:"remarks"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// LinkRow is one row of the owner's link listing
type LinkRow struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   string    `json:"createdAt"` // display-formatted
	OriginalURL string    `json:"originalURL"`
	ShortURL    string    `json:"shortURL"`
	Remarks     string    `json:"remarks"`
	Clicks      int64     `json:"clicks"`
	Status      string    `json:"status"`
}

// ListLinksResponse represents a page of the owner's links
type ListLinksResponse struct {
	Links      []LinkRow `json:"links"`
	TotalPages int64     `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
