package model

import (
	"time"

	"github.com/google/uuid"
)

// Device categories recorded with each click. Closed set; anything
// the user-agent parser cannot classify is Unknown.
const (
	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
	DeviceTablet  = "Tablet"
	DeviceUnknown = "Unknown"
)

// Click is one recorded redirect. Clicks are append-only: once
// written they are never mutated or removed.
type Click struct {
	ID        int64     `json:"id"`
	LinkID    uuid.UUID `json:"linkId"`
	ClickedAt time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
}

// ClientInfo is the request metadata extracted before recording a click
type ClientInfo struct {
	IP      string
	Device  string
	Browser string
}

// OwnerClick is a click joined with its link, as read back for the
// analytics views.
type OwnerClick struct {
	ClickedAt   time.Time
	OriginalURL string
	ShortCode   string
	IP          string
	Device      string
	Browser     string
}
