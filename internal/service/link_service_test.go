package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumit-1109/Link-Management-Backend/internal/config"
	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/repository"
	"github.com/Sumit-1109/Link-Management-Backend/internal/testutil"
)

var (
	testDB  *testutil.TestDB
	testCfg *config.Config
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testCfg, err = config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	testDB, err = testutil.SetupTestDB(ctx)
	if err != nil {
		panic("failed to setup test database: " + err.Error())
	}

	code := m.Run()

	testDB.Teardown(ctx)
	os.Exit(code)
}

func newLinkService() *LinkService {
	repo := repository.NewLinkRepository(testDB.Pool)
	return NewLinkService(repo, testCfg.App.BaseURL, testCfg.App.ShortCodeRetries)
}

func seedUser(t *testing.T, ctx context.Context) uuid.UUID {
	t.Helper()
	id, err := testDB.SeedUser(ctx)
	require.NoError(t, err, "failed to seed user")
	return id
}

// insertLink writes a link row directly, bypassing the service, so
// tests can control fields like the expiration date freely.
func insertLink(t *testing.T, ctx context.Context, ownerID uuid.UUID, code string, expiration *time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := testDB.Pool.Exec(ctx, `
        INSERT INTO links (id, original_url, short_code, expiration_date, remarks, status, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, id, "https://example.com/"+code, code, expiration, "seeded", model.StatusActive, ownerID)
	require.NoError(t, err, "failed to insert link")
	return id
}

func TestLinkService_CreateLink(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	t.Run("creates link and returns public short URL", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		resp, err := service.CreateLink(ctx, owner, &model.CreateLinkRequest{
			OriginalURL: "https://example.com/very/long/url",
			Remarks:     "campaign",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ShortURL)
		assert.Contains(t, resp.ShortURL, testCfg.App.BaseURL+"/")

		var count int
		err = testDB.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM links WHERE created_by = $1", owner).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("accepts bare host destination", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		_, err := service.CreateLink(ctx, owner, &model.CreateLinkRequest{
			OriginalURL: "example.com/page",
			Remarks:     "no scheme",
		})
		require.NoError(t, err)

		// Stored verbatim; normalization happens on redirect
		var stored string
		err = testDB.Pool.QueryRow(ctx,
			"SELECT original_url FROM links WHERE created_by = $1", owner).Scan(&stored)
		require.NoError(t, err)
		assert.Equal(t, "example.com/page", stored)
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		_, err := service.CreateLink(ctx, owner, &model.CreateLinkRequest{
			OriginalURL: "not a url",
			Remarks:     "x",
		})
		require.Error(t, err)
		ve, ok := AsValidation(err)
		require.True(t, ok, "expected ValidationError, got %v", err)
		assert.Equal(t, "originalURL", ve.Field)
	})

	t.Run("rejects expiration date in the past", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		past := time.Now().Add(-time.Hour)
		_, err := service.CreateLink(ctx, owner, &model.CreateLinkRequest{
			OriginalURL:    "https://example.com",
			Remarks:        "x",
			ExpirationDate: &past,
		})
		require.Error(t, err)
		ve, ok := AsValidation(err)
		require.True(t, ok, "expected ValidationError, got %v", err)
		assert.Equal(t, "expirationDate", ve.Field)
	})

	t.Run("stores future expiration date", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		future := time.Now().Add(24 * time.Hour)
		_, err := service.CreateLink(ctx, owner, &model.CreateLinkRequest{
			OriginalURL:    "https://example.com",
			Remarks:        "x",
			ExpirationDate: &future,
		})
		require.NoError(t, err)

		var saved time.Time
		err = testDB.Pool.QueryRow(ctx,
			"SELECT expiration_date FROM links WHERE created_by = $1", owner).Scan(&saved)
		require.NoError(t, err)
		assert.WithinDuration(t, future, saved, time.Second)
	})
}

func TestLinkService_ListLinks(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	t.Run("returns ErrNoLinks when the owner has no links", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		_, err := service.ListLinks(ctx, owner, ListLinksParams{})
		assert.ErrorIs(t, err, ErrNoLinks)
	})

	t.Run("paginates with default limit 10", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		for i := 0; i < 25; i++ {
			insertLink(t, ctx, owner, fmt.Sprintf("page%04d", i), nil)
		}

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{Page: 1})
		require.NoError(t, err)
		assert.Len(t, resp.Links, 10)
		assert.Equal(t, int64(3), resp.TotalPages)

		resp, err = service.ListLinks(ctx, owner, ListLinksParams{Page: 3})
		require.NoError(t, err)
		assert.Len(t, resp.Links, 5, "last page carries the remainder")
	})

	t.Run("page past the end is empty but not an error", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		insertLink(t, ctx, owner, "only0001", nil)

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{Page: 5})
		require.NoError(t, err)
		assert.Empty(t, resp.Links)
		assert.Equal(t, int64(1), resp.TotalPages)
	})

	t.Run("filters by substring over destination and remarks", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		insertLink(t, ctx, owner, "findme01", nil)
		insertLink(t, ctx, owner, "other001", nil)

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{Query: "FINDME"})
		require.NoError(t, err)
		require.Len(t, resp.Links, 1, "search is case-insensitive")
		assert.Contains(t, resp.Links[0].OriginalURL, "findme01")
	})

	t.Run("does not leak other owners' links", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		other := seedUser(t, ctx)
		insertLink(t, ctx, owner, "mine0001", nil)
		insertLink(t, ctx, other, "their001", nil)

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{})
		require.NoError(t, err)
		require.Len(t, resp.Links, 1)
		assert.Contains(t, resp.Links[0].OriginalURL, "mine0001")
	})

	t.Run("sweep flips expired links to inactive before listing", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		expired := time.Now().Add(-time.Hour)
		expiredID := insertLink(t, ctx, owner, "dead0001", &expired)
		insertLink(t, ctx, owner, "live0001", nil)

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{})
		require.NoError(t, err)
		require.Len(t, resp.Links, 2)

		byURL := map[string]string{}
		for _, row := range resp.Links {
			byURL[row.OriginalURL] = row.Status
		}
		assert.Equal(t, "Inactive", byURL["https://example.com/dead0001"])
		assert.Equal(t, "Active", byURL["https://example.com/live0001"])

		// The stored status cache was refreshed too
		var status string
		err = testDB.Pool.QueryRow(ctx,
			"SELECT status FROM links WHERE id = $1", expiredID).Scan(&status)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, status)
	})

	t.Run("renders creation time in display format", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		insertLink(t, ctx, owner, "disp0001", nil)

		resp, err := service.ListLinks(ctx, owner, ListLinksParams{})
		require.NoError(t, err)
		require.Len(t, resp.Links, 1)

		_, err = time.Parse(createdAtDisplay, resp.Links[0].CreatedAt)
		assert.NoError(t, err, "createdAt %q should match %q", resp.Links[0].CreatedAt, createdAtDisplay)
	})
}

func TestLinkService_GetLink(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	t.Run("returns the owner's link", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "get00001", nil)

		link, err := service.GetLink(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, id, link.ID)
		assert.Equal(t, model.StatusActive, link.Status)
	})

	t.Run("reports another owner's link as not found", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		other := seedUser(t, ctx)
		id := insertLink(t, ctx, other, "priv0001", nil)

		_, err := service.GetLink(ctx, owner, id)
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		_, err := service.GetLink(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}

func TestLinkService_UpdateLink(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	t.Run("applies partial update", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "upd00001", nil)

		newURL := "https://example.org/changed"
		newRemarks := "updated remarks"
		link, err := service.UpdateLink(ctx, owner, id, &model.UpdateLinkRequest{
			OriginalURL: &newURL,
			Remarks:     &newRemarks,
		})
		require.NoError(t, err)
		assert.Equal(t, newURL, link.OriginalURL)
		assert.Equal(t, newRemarks, link.Remarks)
		assert.Equal(t, "upd00001", link.ShortCode, "short code is immutable")

		var stored string
		err = testDB.Pool.QueryRow(ctx,
			"SELECT original_url FROM links WHERE id = $1", id).Scan(&stored)
		require.NoError(t, err)
		assert.Equal(t, newURL, stored)
	})

	t.Run("nil fields are left unchanged", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "keep0001", nil)

		newRemarks := "only remarks"
		link, err := service.UpdateLink(ctx, owner, id, &model.UpdateLinkRequest{
			Remarks: &newRemarks,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/keep0001", link.OriginalURL)
		assert.Equal(t, newRemarks, link.Remarks)
	})

	t.Run("rejects invalid destination", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "bad00001", nil)

		bad := "ftp://example.com"
		_, err := service.UpdateLink(ctx, owner, id, &model.UpdateLinkRequest{OriginalURL: &bad})
		_, ok := AsValidation(err)
		assert.True(t, ok, "expected ValidationError, got %v", err)
	})

	t.Run("rejects past expiration date", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "past0001", nil)

		past := time.Now().Add(-time.Minute)
		_, err := service.UpdateLink(ctx, owner, id, &model.UpdateLinkRequest{ExpirationDate: &past})
		ve, ok := AsValidation(err)
		require.True(t, ok, "expected ValidationError, got %v", err)
		assert.Equal(t, "expirationDate", ve.Field)
	})

	t.Run("enforces ownership", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		other := seedUser(t, ctx)
		id := insertLink(t, ctx, other, "notmine1", nil)

		newRemarks := "hijack"
		_, err := service.UpdateLink(ctx, owner, id, &model.UpdateLinkRequest{Remarks: &newRemarks})
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}

func TestLinkService_DeleteLink(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	t.Run("deletes link and its clicks", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "del00001", nil)
		_, err := testDB.Pool.Exec(ctx,
			`INSERT INTO clicks (link_id, clicked_at, ip, device, browser) VALUES ($1, now(), '1.2.3.4', 'Desktop', 'Chrome')`, id)
		require.NoError(t, err)

		err = service.DeleteLink(ctx, owner, id)
		require.NoError(t, err)

		var clicks int
		err = testDB.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM clicks WHERE link_id = $1", id).Scan(&clicks)
		require.NoError(t, err)
		assert.Equal(t, 0, clicks, "clicks cascade with the link")
	})

	t.Run("enforces ownership", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		other := seedUser(t, ctx)
		id := insertLink(t, ctx, other, "safe0001", nil)

		err := service.DeleteLink(ctx, owner, id)
		assert.ErrorIs(t, err, ErrLinkNotFound)

		var count int
		testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM links WHERE id = $1", id).Scan(&count)
		assert.Equal(t, 1, count, "foreign link must survive")
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)

		err := service.DeleteLink(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})
}

func TestLinkService_Redirect(t *testing.T) {
	ctx := context.Background()
	service := newLinkService()

	info := model.ClientInfo{IP: "203.0.113.5", Device: model.DeviceMobile, Browser: "Chrome"}

	t.Run("resolves code and records the click", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "go000001", nil)

		target, err := service.Redirect(ctx, "go000001", info)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/go000001", target)

		var totalClicks int64
		err = testDB.Pool.QueryRow(ctx,
			"SELECT total_clicks FROM links WHERE id = $1", id).Scan(&totalClicks)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totalClicks)

		var device, browser, ip string
		err = testDB.Pool.QueryRow(ctx,
			"SELECT device, browser, ip FROM clicks WHERE link_id = $1", id).Scan(&device, &browser, &ip)
		require.NoError(t, err)
		assert.Equal(t, model.DeviceMobile, device)
		assert.Equal(t, "Chrome", browser)
		assert.Equal(t, "203.0.113.5", ip)
	})

	t.Run("prepends scheme to bare destinations", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := uuid.New()
		_, err := testDB.Pool.Exec(ctx, `
            INSERT INTO links (id, original_url, short_code, remarks, status, created_by)
            VALUES ($1, 'example.com/bare', 'bare0001', '', 'active', $2)
        `, id, owner)
		require.NoError(t, err)

		target, err := service.Redirect(ctx, "bare0001", info)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/bare", target)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		testDB.Cleanup(ctx)

		_, err := service.Redirect(ctx, "missing1", info)
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("expired link is gone and gains no click", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		expired := time.Now().Add(-time.Hour)
		id := insertLink(t, ctx, owner, "exp00001", &expired)

		_, err := service.Redirect(ctx, "exp00001", info)
		assert.ErrorIs(t, err, ErrLinkExpired)

		var clicks int
		testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM clicks WHERE link_id = $1", id).Scan(&clicks)
		assert.Equal(t, 0, clicks, "expired redirects must not be recorded")
	})

	t.Run("blank client metadata is recorded as Unknown", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "anon0001", nil)

		_, err := service.Redirect(ctx, "anon0001", model.ClientInfo{})
		require.NoError(t, err)

		var device, browser string
		err = testDB.Pool.QueryRow(ctx,
			"SELECT device, browser FROM clicks WHERE link_id = $1", id).Scan(&device, &browser)
		require.NoError(t, err)
		assert.Equal(t, model.DeviceUnknown, device)
		assert.Equal(t, model.DeviceUnknown, browser)
	})

	t.Run("concurrent redirects lose no clicks", func(t *testing.T) {
		testDB.Cleanup(ctx)
		owner := seedUser(t, ctx)
		id := insertLink(t, ctx, owner, "race0001", nil)

		const workers = 20
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, err := service.Redirect(ctx, "race0001", info)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var totalClicks int64
		err := testDB.Pool.QueryRow(ctx,
			"SELECT total_clicks FROM links WHERE id = $1", id).Scan(&totalClicks)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), totalClicks, "counter must match the number of redirects")

		var clickRows int64
		err = testDB.Pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM clicks WHERE link_id = $1", id).Scan(&clickRows)
		require.NoError(t, err)
		assert.Equal(t, totalClicks, clickRows, "counter and click log must agree")
	})
}
