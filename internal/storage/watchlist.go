package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WatchlistItem is one tracked product.
type WatchlistItem struct {
	ID           string         `json:"id"`
	UserID       string         `json:"-"`
	ProductName  string         `json:"productName"`
	Query        string         `json:"query"`
	SourceURL    string         `json:"sourceUrl,omitempty"`
	TargetPrice  *int           `json:"targetPrice,omitempty"`
	NotifyOnDrop bool           `json:"notifyOnDrop"`
	CreatedAt    time.Time      `json:"createdAt"`
	Verdict      *StoredVerdict `json:"verdict,omitempty"`
}

// StoredVerdict is the condensed verdict kept alongside a watchlist item.
type StoredVerdict struct {
	Verdict      string    `json:"verdict"`
	Confidence   float64   `json:"confidence"`
	ShortReason  string    `json:"shortReason"`
	BestPrice    int       `json:"bestPrice,omitempty"`
	BestRetailer string    `json:"bestRetailer,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// WatchlistUpdate holds the mutable fields of a watchlist item. Nil pointers
// leave the field unchanged.
type WatchlistUpdate struct {
	TargetPrice  *int
	NotifyOnDrop *bool
}

// AddWatchlistItem inserts a new item for a user, enforcing maxItems when it
// is positive. The item's ID and CreatedAt are assigned here.
func (s *SQLiteStorage) AddWatchlistItem(ctx context.Context, item *WatchlistItem, maxItems int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if item == nil {
		return ErrNilParameter
	}
	if err := validateString(item.UserID, "userID"); err != nil {
		return err
	}
	if err := validateString(item.ProductName, "productName"); err != nil {
		return err
	}
	if err := validateString(item.Query, "query"); err != nil {
		return err
	}

	if maxItems > 0 {
		count, err := s.CountWatchlistItems(ctx, item.UserID)
		if err != nil {
			return err
		}
		if count >= maxItems {
			return fmt.Errorf("%w: limit is %d items", ErrWatchlistFull, maxItems)
		}
	}

	item.ID = uuid.New().String()
	item.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist (id, user_id, product_name, query, source_url, target_price, notify_on_drop, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.ProductName, item.Query,
		nullString(item.SourceURL), nullInt(item.TargetPrice),
		item.NotifyOnDrop, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert watchlist item: %w", err)
	}
	return nil
}

// ListWatchlistItems returns a user's items newest-first, each with its most
// recent verdict attached when one exists.
func (s *SQLiteStorage) ListWatchlistItems(ctx context.Context, userID string) ([]WatchlistItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT w.id, w.product_name, w.query, w.source_url, w.target_price, w.notify_on_drop, w.created_at,
		        v.verdict, v.confidence, v.short_reason, v.best_price, v.best_retailer, v.generated_at
		 FROM watchlist w
		 LEFT JOIN verdicts v ON v.id = (
		     SELECT id FROM verdicts WHERE item_id = w.id ORDER BY generated_at DESC, id DESC LIMIT 1
		 )
		 WHERE w.user_id = ?
		 ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]WatchlistItem, 0)
	for rows.Next() {
		var (
			item         WatchlistItem
			sourceURL    sql.NullString
			targetPrice  sql.NullInt64
			verdictStr   sql.NullString
			confidence   sql.NullFloat64
			shortReason  sql.NullString
			bestPrice    sql.NullInt64
			bestRetailer sql.NullString
			generatedAt  sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.ProductName, &item.Query, &sourceURL, &targetPrice,
			&item.NotifyOnDrop, &item.CreatedAt,
			&verdictStr, &confidence, &shortReason, &bestPrice, &bestRetailer, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		item.UserID = userID
		item.SourceURL = sourceURL.String
		if targetPrice.Valid {
			tp := int(targetPrice.Int64)
			item.TargetPrice = &tp
		}
		if verdictStr.Valid {
			item.Verdict = &StoredVerdict{
				Verdict:      verdictStr.String,
				Confidence:   confidence.Float64,
				ShortReason:  shortReason.String,
				BestPrice:    int(bestPrice.Int64),
				BestRetailer: bestRetailer.String,
				GeneratedAt:  generatedAt.Time,
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist: %w", err)
	}
	return items, nil
}

// UpdateWatchlistItem applies the update to one of a user's items and returns
// the updated row.
func (s *SQLiteStorage) UpdateWatchlistItem(ctx context.Context, userID, itemID string, update WatchlistUpdate) (*WatchlistItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(itemID, "itemID"); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	if update.TargetPrice != nil {
		sets = append(sets, "target_price = ?")
		args = append(args, *update.TargetPrice)
	}
	if update.NotifyOnDrop != nil {
		sets = append(sets, "notify_on_drop = ?")
		args = append(args, *update.NotifyOnDrop)
	}
	if len(sets) == 0 {
		return nil, ErrNoFields
	}
	args = append(args, itemID, userID)

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE watchlist SET %s WHERE id = ? AND user_id = ?", strings.Join(sets, ", ")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update watchlist item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.getWatchlistItem(ctx, userID, itemID)
}

// DeleteWatchlistItem removes one of a user's items.
func (s *SQLiteStorage) DeleteWatchlistItem(ctx context.Context, userID, itemID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(itemID, "itemID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM watchlist WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountWatchlistItems returns how many items a user currently tracks.
func (s *SQLiteStorage) CountWatchlistItems(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM watchlist WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count watchlist items: %w", err)
	}
	return count, nil
}

// SaveVerdict records a generated verdict against a watchlist item.
func (s *SQLiteStorage) SaveVerdict(ctx context.Context, itemID string, v StoredVerdict) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(itemID, "itemID"); err != nil {
		return err
	}
	if err := validateString(v.Verdict, "verdict"); err != nil {
		return err
	}

	if v.GeneratedAt.IsZero() {
		v.GeneratedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verdicts (item_id, verdict, confidence, short_reason, best_price, best_retailer, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		itemID, v.Verdict, v.Confidence, nullString(v.ShortReason),
		v.BestPrice, nullString(v.BestRetailer), v.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert verdict: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) getWatchlistItem(ctx context.Context, userID, itemID string) (*WatchlistItem, error) {
	var (
		item        WatchlistItem
		sourceURL   sql.NullString
		targetPrice sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, product_name, query, source_url, target_price, notify_on_drop, created_at
		 FROM watchlist WHERE id = ? AND user_id = ?`, itemID, userID).
		Scan(&item.ID, &item.ProductName, &item.Query, &sourceURL, &targetPrice,
			&item.NotifyOnDrop, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist item: %w", err)
	}
	item.UserID = userID
	item.SourceURL = sourceURL.String
	if targetPrice.Valid {
		tp := int(targetPrice.Int64)
		item.TargetPrice = &tp
	}
	return &item, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
