package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
)

var ErrCodeConflict = errors.New("short code already exists")

const linkColumns = `id, original_url, short_code, expiration_date, remarks, total_clicks, status, created_at, created_by`

// ListOptions controls filtering, sorting and pagination of the
// owner's link listing.
type ListOptions struct {
	Query  string // case-insensitive substring over original_url and remarks
	SortBy string // "createdAt" or "status"
	Order  string // "asc" or "desc"
	Offset int
	Limit  int
}

// LinkRepository handles database operations for links and their
// click logs.
type LinkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new link. A unique-constraint violation on the
// short code is mapped to ErrCodeConflict so the caller can retry
// with a fresh code.
func (r *LinkRepository) Create(ctx context.Context, link *model.Link) error {
	ctx, span := tracer.Start(ctx, "db.insert",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", "links"),
			attribute.String("short_code", link.ShortCode),
		),
	)
	defer span.End()

	query := `
		INSERT INTO links (id, original_url, short_code, expiration_date, remarks, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		link.ID,
		link.OriginalURL,
		link.ShortCode,
		link.ExpirationDate,
		link.Remarks,
		link.Status,
		link.CreatedBy,
	).Scan(&link.CreatedAt)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCodeConflict
		}
		return err
	}
	return nil
}

// GetByShortCode retrieves a link by its short code
func (r *LinkRepository) GetByShortCode(ctx context.Context, code string) (*model.Link, error) {
	ctx, span := tracer.Start(ctx, "db.select",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", "links"),
			attribute.String("short_code", code),
		),
	)
	defer span.End()

	return r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE short_code = $1`, code)
}

// GetByID retrieves a link by id
func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
}

func (r *LinkRepository) getOne(ctx context.Context, query string, arg any) (*model.Link, error) {
	var link model.Link
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&link.ID,
		&link.OriginalURL,
		&link.ShortCode,
		&link.ExpirationDate,
		&link.Remarks,
		&link.TotalClicks,
		&link.Status,
		&link.CreatedAt,
		&link.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// CodeExists reports whether a short code is already taken. Used by
// the generator's check loop; the unique index remains the authority.
func (r *LinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE short_code = $1)`, code,
	).Scan(&exists)
	return exists, err
}

// ListByOwner returns one page of the owner's links plus the total
// number of links matching the filter.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]model.Link, int64, error) {
	ctx, span := tracer.Start(ctx, "db.select",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", "links"),
			attribute.String("owner_id", ownerID.String()),
		),
	)
	defer span.End()

	where := `WHERE created_by = $1`
	args := []any{ownerID}
	if opts.Query != "" {
		where += ` AND (original_url ILIKE '%' || $2 || '%' OR remarks ILIKE '%' || $2 || '%')`
		args = append(args, opts.Query)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM links `+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM links %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		linkColumns, where, orderClause(opts.SortBy, opts.Order), len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var link model.Link
		if err := rows.Scan(
			&link.ID,
			&link.OriginalURL,
			&link.ShortCode,
			&link.ExpirationDate,
			&link.Remarks,
			&link.TotalClicks,
			&link.Status,
			&link.CreatedAt,
			&link.CreatedBy,
		); err != nil {
			return nil, 0, err
		}
		links = append(links, link)
	}
	return links, total, rows.Err()
}

// orderClause maps the API sort parameters onto a whitelisted ORDER BY
// expression. Sorting by status relies on the expiration sweep having
// refreshed the status column first.
func orderClause(sortBy, order string) string {
	dir := "ASC"
	if order == "desc" {
		dir = "DESC"
	}
	if sortBy == "status" {
		return "status " + dir + ", created_at DESC"
	}
	return "created_at " + dir
}

// CountByOwner returns the number of links the owner has
func (r *LinkRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM links WHERE created_by = $1`, ownerID,
	).Scan(&total)
	return total, err
}

// Update writes the mutable fields and the recomputed status cache
func (r *LinkRepository) Update(ctx context.Context, link *model.Link) error {
	result, err := r.db.Exec(ctx,
		`UPDATE links SET original_url = $2, remarks = $3, expiration_date = $4, status = $5 WHERE id = $1`,
		link.ID, link.OriginalURL, link.Remarks, link.ExpirationDate, link.Status,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an owner's link; its clicks cascade
func (r *LinkRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM links WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByOwner removes every link the owner has
func (r *LinkRepository) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM links WHERE created_by = $1`, ownerID)
	return err
}

// AppendClick appends a click record and increments the denormalized
// counter in a single transaction, so concurrent redirects on the
// same code never lose a click or under-count total_clicks.
func (r *LinkRepository) AppendClick(ctx context.Context, linkID uuid.UUID, click *model.Click) error {
	ctx, span := tracer.Start(ctx, "db.append_click",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("link_id", linkID.String()),
		),
	)
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE links SET total_clicks = total_clicks + 1 WHERE id = $1`, linkID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO clicks (link_id, clicked_at, ip, device, browser)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		linkID, click.ClickedAt, click.IP, click.Device, click.Browser,
	).Scan(&click.ID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	click.LinkID = linkID

	return tx.Commit(ctx)
}

// DeactivateExpired is the housekeeping sweep: it marks the owner's
// links whose expiration date has passed as inactive. The status
// column it refreshes is a cache; the redirect path never trusts it.
func (r *LinkRepository) DeactivateExpired(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE links
		 SET status = $2
		 WHERE created_by = $1
		   AND expiration_date IS NOT NULL
		   AND expiration_date < now()
		   AND status = $3`,
		ownerID, model.StatusInactive, model.StatusActive)
	return err
}

// ClicksByOwner returns every click across the owner's links joined
// with link metadata, in insertion order. Insertion order is
// chronological per link, which keeps the aggregator's stable
// timestamp sort deterministic.
func (r *LinkRepository) ClicksByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.OwnerClick, error) {
	ctx, span := tracer.Start(ctx, "db.select",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", "clicks"),
			attribute.String("owner_id", ownerID.String()),
		),
	)
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT c.clicked_at, l.original_url, l.short_code, c.ip, c.device, c.browser
		 FROM clicks c
		 JOIN links l ON l.id = c.link_id
		 WHERE l.created_by = $1
		 ORDER BY c.id`,
		ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rows.Close()

	var clicks []model.OwnerClick
	for rows.Next() {
		var click model.OwnerClick
		if err := rows.Scan(
			&click.ClickedAt,
			&click.OriginalURL,
			&click.ShortCode,
			&click.IP,
			&click.Device,
			&click.Browser,
		); err != nil {
			return nil, err
		}
		clicks = append(clicks, click)
	}
	return clicks, rows.Err()
}

// CountClicks returns the number of click records for a link
func (r *LinkRepository) CountClicks(ctx context.Context, linkID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM clicks WHERE link_id = $1`, linkID,
	).Scan(&total)
	return total, err
}
