package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func addItem(t *testing.T, store *SQLiteStorage, userID, name string) *WatchlistItem {
	t.Helper()
	item := &WatchlistItem{
		UserID:       userID,
		ProductName:  name,
		Query:        name,
		NotifyOnDrop: true,
	}
	require.NoError(t, store.AddWatchlistItem(context.Background(), item, 0))
	return item
}

func TestAddWatchlistItem(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and created timestamp", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")

		assert.NotEmpty(t, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
	})

	t.Run("enforces the item limit", func(t *testing.T) {
		store := createTestStorage(t)
		for i := 0; i < 3; i++ {
			item := &WatchlistItem{UserID: "user-1", ProductName: "P", Query: "P"}
			require.NoError(t, store.AddWatchlistItem(ctx, item, 3))
		}

		item := &WatchlistItem{UserID: "user-1", ProductName: "P", Query: "P"}
		err := store.AddWatchlistItem(ctx, item, 3)
		assert.ErrorIs(t, err, ErrWatchlistFull)

		// A different user is unaffected.
		other := &WatchlistItem{UserID: "user-2", ProductName: "P", Query: "P"}
		assert.NoError(t, store.AddWatchlistItem(ctx, other, 3))
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		store := createTestStorage(t)
		err := store.AddWatchlistItem(ctx, &WatchlistItem{UserID: "u", Query: "q"}, 0)
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestListWatchlistItems(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first with latest verdict attached", func(t *testing.T) {
		store := createTestStorage(t)
		first := addItem(t, store, "user-1", "Apple iPhone 16")
		second := &WatchlistItem{
			UserID: "user-1", ProductName: "Sony WH-1000XM5", Query: "sony headphones",
			SourceURL: "https://www.amazon.in/dp/B0ABCDEFXY",
		}
		require.NoError(t, store.AddWatchlistItem(ctx, second, 0))
		// created_at has second precision in SQLite DATETIME defaults
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		_, err := store.db.ExecContext(ctx, "UPDATE watchlist SET created_at = ? WHERE id = ?", second.CreatedAt, second.ID)
		require.NoError(t, err)

		require.NoError(t, store.SaveVerdict(ctx, first.ID, StoredVerdict{
			Verdict: "WAIT", Confidence: 0.7, ShortReason: "Sale coming",
			GeneratedAt: time.Now().UTC().Add(-time.Hour),
		}))
		require.NoError(t, store.SaveVerdict(ctx, first.ID, StoredVerdict{
			Verdict: "BUY_NOW", Confidence: 0.9, ShortReason: "Near all-time low",
			BestPrice: 77900, BestRetailer: "Amazon India",
		}))

		items, err := store.ListWatchlistItems(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "Sony WH-1000XM5", items[0].ProductName)
		assert.Equal(t, "https://www.amazon.in/dp/B0ABCDEFXY", items[0].SourceURL)
		assert.Nil(t, items[0].Verdict)

		require.NotNil(t, items[1].Verdict)
		assert.Equal(t, "BUY_NOW", items[1].Verdict.Verdict)
		assert.Equal(t, 77900, items[1].Verdict.BestPrice)
		assert.Equal(t, "Amazon India", items[1].Verdict.BestRetailer)
	})

	t.Run("empty for unknown users", func(t *testing.T) {
		store := createTestStorage(t)
		items, err := store.ListWatchlistItems(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestUpdateWatchlistItem(t *testing.T) {
	ctx := context.Background()

	t.Run("updates target price and notification flag", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")

		target := 74900
		notify := false
		updated, err := store.UpdateWatchlistItem(ctx, "user-1", item.ID, WatchlistUpdate{
			TargetPrice:  &target,
			NotifyOnDrop: &notify,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.TargetPrice)
		assert.Equal(t, 74900, *updated.TargetPrice)
		assert.False(t, updated.NotifyOnDrop)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")

		_, err := store.UpdateWatchlistItem(ctx, "user-1", item.ID, WatchlistUpdate{})
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("cannot touch another user's item", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")

		target := 100
		_, err := store.UpdateWatchlistItem(ctx, "user-2", item.ID, WatchlistUpdate{TargetPrice: &target})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteWatchlistItem(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and cascades verdicts", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")
		require.NoError(t, store.SaveVerdict(ctx, item.ID, StoredVerdict{Verdict: "WAIT"}))

		require.NoError(t, store.DeleteWatchlistItem(ctx, "user-1", item.ID))

		var count int
		require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM verdicts WHERE item_id = ?", item.ID).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("not found for wrong user or id", func(t *testing.T) {
		store := createTestStorage(t)
		item := addItem(t, store, "user-1", "Apple iPhone 16")

		assert.ErrorIs(t, store.DeleteWatchlistItem(ctx, "user-2", item.ID), ErrNotFound)
		assert.ErrorIs(t, store.DeleteWatchlistItem(ctx, "user-1", "missing"), ErrNotFound)
	})
}
