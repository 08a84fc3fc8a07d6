package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/repository"
)

// AnalyticsService derives the analytics views by scanning the
// owner's full click log. There are no pre-aggregated rollups; both
// views are computed per request.
type AnalyticsService struct {
	repo    *repository.LinkRepository
	baseURL string
}

// AnalyticsServiceInterface defines the contract for the analytics views
type AnalyticsServiceInterface interface {
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, page, limit int, order string) (*model.AnalyticsResponse, error)
	GetDashboard(ctx context.Context, ownerID uuid.UUID) (*model.DashboardResponse, error)
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo *repository.LinkRepository, baseURL string) *AnalyticsService {
	return &AnalyticsService{repo: repo, baseURL: baseURL}
}

// GetAnalytics flattens every click across the owner's links into one
// timestamp-sorted, paginated sequence. The sort is stable: clicks
// with equal timestamps keep their insertion order, which is
// chronological per link.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, ownerID uuid.UUID, page, limit int, order string) (*model.AnalyticsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	clicks, err := s.ownerClicks(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.AnalyticsEntry, 0, len(clicks))
	for _, click := range clicks {
		entries = append(entries, model.AnalyticsEntry{
			Timestamp:   click.ClickedAt,
			OriginalURL: click.OriginalURL,
			ShortURL:    s.baseURL + "/" + click.ShortCode,
			IP:          click.IP,
			Device:      click.Device,
			Browser:     click.Browser,
		})
	}

	if order == "asc" {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		})
	} else {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
	}

	total := int64(len(entries))
	start := (page - 1) * limit
	if start > len(entries) {
		start = len(entries)
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}

	return &model.AnalyticsResponse{
		Analytics:    entries[start:end],
		TotalEntries: total,
		TotalPages:   totalPages(total, int64(limit)),
	}, nil
}

// GetDashboard computes the rollup over the owner's click log: total
// clicks, clicks per calendar date (UTC) and clicks per device
// category. Mobile, Desktop and Tablet are pre-seeded so absent
// categories report zero.
func (s *AnalyticsService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*model.DashboardResponse, error) {
	clicks, err := s.ownerClicks(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dateAnalytics := make(map[string]int64)
	deviceAnalytics := map[string]int64{
		model.DeviceMobile:  0,
		model.DeviceDesktop: 0,
		model.DeviceTablet:  0,
	}

	for _, click := range clicks {
		date := click.ClickedAt.UTC().Format("2006-01-02")
		dateAnalytics[date]++
		deviceAnalytics[click.Device]++
	}

	return &model.DashboardResponse{
		TotalClicks:     int64(len(clicks)),
		DateAnalytics:   dateAnalytics,
		DeviceAnalytics: deviceAnalytics,
	}, nil
}

// ownerClicks loads the owner's full click log, distinguishing "no
// links at all" (reported as ErrNoLinks) from links without clicks.
func (s *AnalyticsService) ownerClicks(ctx context.Context, ownerID uuid.UUID) ([]model.OwnerClick, error) {
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoLinks
	}
	return s.repo.ClicksByOwner(ctx, ownerID)
}

// Ensure AnalyticsService implements its interface at compile time
var _ AnalyticsServiceInterface = (*AnalyticsService)(nil)
