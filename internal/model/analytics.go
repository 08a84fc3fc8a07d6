package model

import "time"

// AnalyticsEntry is one click flattened across the owner's links
type AnalyticsEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	OriginalURL string    `json:"originalURL"`
	ShortURL    string    `json:"shortURL"`
	IP          string    `json:"ip"`
	Device      string    `json:"device"`
	Browser     string    `json:"browser"`
}

// AnalyticsResponse is a page of the flat click log
type AnalyticsResponse struct {
	Analytics    []AnalyticsEntry `json:"analytics"`
	TotalEntries int64            `json:"totalEntries"`
	TotalPages   int64            `json:"totalPages"`
}

// DashboardResponse is the aggregated rollup over the owner's links.
// DeviceAnalytics always contains the Mobile, Desktop and Tablet keys
// so absent categories report zero rather than being omitted.
type DashboardResponse struct {
	TotalClicks     int64            `json:"totalClicks"`
	DateAnalytics   map[string]int64 `json:"dateAnalytics"`
	DeviceAnalytics map[string]int64 `json:"deviceAnalytics"`
}
