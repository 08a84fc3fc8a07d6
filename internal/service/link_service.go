package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/repository"
)

// createdAtDisplay is how creation times are rendered in link listings
const createdAtDisplay = "Jan 02, 2006, 03:04 PM"

// ListLinksParams are the query parameters of the link listing
type ListLinksParams struct {
	Query  string
	SortBy string // "createdAt" (default) or "status"
	Order  string // "asc" (default) or "desc"
	Page   int    // 1-based
	Limit  int
}

// LinkService handles business logic for link operations: creation
// with collision-free code generation, listing, updates, deletion and
// the redirect path with click recording.
type LinkService struct {
	repo    *repository.LinkRepository
	gen     *ShortCodeGenerator
	baseURL string
	retries int
}

// LinkServiceInterface defines the contract for link operations
type LinkServiceInterface interface {
	CreateLink(ctx context.Context, ownerID uuid.UUID, req *model.CreateLinkRequest) (*model.CreateLinkResponse, error)
	ListLinks(ctx context.Context, ownerID uuid.UUID, params ListLinksParams) (*model.ListLinksResponse, error)
	GetLink(ctx context.Context, ownerID, id uuid.UUID) (*model.Link, error)
	UpdateLink(ctx context.Context, ownerID, id uuid.UUID, req *model.UpdateLinkRequest) (*model.Link, error)
	DeleteLink(ctx context.Context, ownerID, id uuid.UUID) error
	Redirect(ctx context.Context, code string, info model.ClientInfo) (string, error)
}

// NewLinkService creates a new link service
func NewLinkService(repo *repository.LinkRepository, baseURL string, retries int) *LinkService {
	if retries < 1 {
		retries = 1
	}
	return &LinkService{
		repo:    repo,
		gen:     NewShortCodeGenerator(repo, retries),
		baseURL: baseURL,
		retries: retries,
	}
}

// CreateLink validates the destination and expiration, generates a
// unique short code and persists the link. An insert that still
// collides after the generator's check is retried with a fresh code;
// the unique index is the uniqueness authority.
func (s *LinkService) CreateLink(ctx context.Context, ownerID uuid.UUID, req *model.CreateLinkRequest) (*model.CreateLinkResponse, error) {
	if err := validateURL(req.OriginalURL); err != nil {
		return nil, err
	}
	if req.ExpirationDate != nil && !req.ExpirationDate.After(time.Now()) {
		return nil, &ValidationError{Field: "expirationDate", Message: "expiration date must be in the future"}
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		code, err := s.gen.Generate(ctx)
		if err != nil {
			return nil, err
		}

		link := &model.Link{
			ID:             uuid.New(),
			OriginalURL:    req.OriginalURL,
			ShortCode:      code,
			ExpirationDate: req.ExpirationDate,
			Remarks:        req.Remarks,
			Status:         model.StatusActive,
			CreatedBy:      ownerID,
		}
		if err := s.repo.Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrCodeConflict) {
				continue
			}
			return nil, err
		}
		return &model.CreateLinkResponse{ShortURL: s.shortURL(code)}, nil
	}
	return nil, ErrShortCodeGeneration
}

// ListLinks returns one page of the owner's links. The expiration
// sweep runs first so the status column and status sorting are never
// stale by more than one request.
func (s *LinkService) ListLinks(ctx context.Context, ownerID uuid.UUID, params ListLinksParams) (*model.ListLinksResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	if params.Order != "desc" {
		params.Order = "asc"
	}
	if params.SortBy != "status" {
		params.SortBy = "createdAt"
	}

	if err := s.repo.DeactivateExpired(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("expiration sweep: %w", err)
	}

	links, total, err := s.repo.ListByOwner(ctx, ownerID, repository.ListOptions{
		Query:  params.Query,
		SortBy: params.SortBy,
		Order:  params.Order,
		Offset: (params.Page - 1) * params.Limit,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoLinks
	}

	now := time.Now()
	rows := make([]model.LinkRow, 0, len(links))
	for _, link := range links {
		rows = append(rows, model.LinkRow{
			ID:          link.ID,
			CreatedAt:   link.CreatedAt.Format(createdAtDisplay),
			OriginalURL: link.OriginalURL,
			ShortURL:    s.shortURL(link.ShortCode),
			Remarks:     link.Remarks,
			Clicks:      link.TotalClicks,
			Status:      link.DeriveStatus(now),
		})
	}

	return &model.ListLinksResponse{
		Links:      rows,
		TotalPages: totalPages(total, int64(params.Limit)),
	}, nil
}

// GetLink retrieves one of the owner's links by id
func (s *LinkService) GetLink(ctx context.Context, ownerID, id uuid.UUID) (*model.Link, error) {
	link, err := s.ownedLink(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	link.Status = strings.ToLower(link.DeriveStatus(time.Now()))
	return link, nil
}

// UpdateLink applies a partial update to the destination, remarks or
// expiration date. Short code, ownership and the click log are
// immutable. The stored status cache is recomputed on save.
func (s *LinkService) UpdateLink(ctx context.Context, ownerID, id uuid.UUID, req *model.UpdateLinkRequest) (*model.Link, error) {
	link, err := s.ownedLink(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.OriginalURL != nil {
		if err := validateURL(*req.OriginalURL); err != nil {
			return nil, err
		}
		link.OriginalURL = *req.OriginalURL
	}
	if req.Remarks != nil {
		link.Remarks = *req.Remarks
	}
	if req.ExpirationDate != nil {
		if !req.ExpirationDate.After(time.Now()) {
			return nil, &ValidationError{Field: "expirationDate", Message: "expiration date must be in the future"}
		}
		link.ExpirationDate = req.ExpirationDate
	}

	if link.Expired(time.Now()) {
		link.Status = model.StatusInactive
	} else {
		link.Status = model.StatusActive
	}

	if err := s.repo.Update(ctx, link); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// DeleteLink removes one of the owner's links and its click log
func (s *LinkService) DeleteLink(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}

// Redirect resolves a short code to its destination and records the
// click. Expiry is checked before recording, so an expired link never
// gains clicks. A failure to persist the click fails the redirect
// rather than silently under-counting.
func (s *LinkService) Redirect(ctx context.Context, code string, info model.ClientInfo) (string, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrLinkNotFound
		}
		return "", err
	}

	if link.Expired(time.Now()) {
		return "", ErrLinkExpired
	}

	click := &model.Click{
		ClickedAt: time.Now().UTC(),
		IP:        info.IP,
		Device:    orUnknown(info.Device),
		Browser:   orUnknown(info.Browser),
	}
	if err := s.repo.AppendClick(ctx, link.ID, click); err != nil {
		return "", fmt.Errorf("recording click: %w", err)
	}

	return normalizeRedirectURL(link.OriginalURL), nil
}

func (s *LinkService) ownedLink(ctx context.Context, ownerID, id uuid.UUID) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	// Another owner's link is reported as not found rather than forbidden
	if link.CreatedBy != ownerID {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

func (s *LinkService) shortURL(code string) string {
	return s.baseURL + "/" + code
}

// validateURL accepts absolute http(s) URLs and bare host paths like
// "example.com/page"; the redirect path later normalizes the scheme.
func validateURL(raw string) error {
	invalid := &ValidationError{Field: "originalURL", Message: "invalid URL format"}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return invalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid
	}
	if u.Host == "" || !strings.Contains(u.Host, ".") {
		return invalid
	}
	return nil
}

// normalizeRedirectURL prepends http:// when the destination has no
// scheme, preventing the client from treating it as a relative path.
func normalizeRedirectURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

func orUnknown(s string) string {
	if s == "" {
		return model.DeviceUnknown
	}
	return s
}

func totalPages(total, limit int64) int64 {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Ensure LinkService implements LinkServiceInterface at compile time
var _ LinkServiceInterface = (*LinkService)(nil)
