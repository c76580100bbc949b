package database

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperstreet/stocksim/internal/models"
	"github.com/paperstreet/stocksim/internal/store"
)

var _ store.HistoryStore = (*DB)(nil)

// trimQuery keeps only the newest MaxHistoryPoints rows per symbol;
// insertion order breaks ties between identical timestamps.
const trimQuery = `
	DELETE FROM price_points
	WHERE symbol = $1 AND id NOT IN (
		SELECT id FROM price_points
		WHERE symbol = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	)
`

// Append inserts a single price point and evicts history beyond the
// per-symbol cap
func (db *DB) Append(symbol string, point models.PricePoint) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO price_points (symbol, recorded_at, price, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(query, symbol, point.Time, decimal.NewFromFloat(point.Price), time.Now()); err != nil {
		return fmt.Errorf("failed to insert price point for %s: %w", symbol, err)
	}

	if _, err := tx.Exec(trimQuery, symbol, models.MaxHistoryPoints); err != nil {
		return fmt.Errorf("failed to trim history for %s: %w", symbol, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AppendBatch inserts one point per symbol with a shared timestamp in
// a single transaction
func (db *DB) AppendBatch(prices map[string]float64, at time.Time) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_points (symbol, recorded_at, price, created_at)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	symbols := make([]string, 0, len(prices))
	for s := range prices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	now := time.Now()
	for _, s := range symbols {
		if _, err := stmt.Exec(s, at, decimal.NewFromFloat(prices[s]), now); err != nil {
			return fmt.Errorf("failed to insert price point for %s: %w", s, err)
		}
	}

	for _, s := range symbols {
		if _, err := tx.Exec(trimQuery, s, models.MaxHistoryPoints); err != nil {
			return fmt.Errorf("failed to trim history for %s: %w", s, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// History returns all recorded points for a symbol in time order
func (db *DB) History(symbol string) ([]models.PricePoint, error) {
	query := `
		SELECT recorded_at, price
		FROM price_points
		WHERE symbol = $1
		ORDER BY recorded_at ASC, id ASC
	`
	rows, err := db.conn.Query(query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		var price sql.NullString

		if err := rows.Scan(&p.Time, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}

		if price.Valid {
			d, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse price %q: %w", price.String, err)
			}
			p.Price = d.InexactFloat64()
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// Symbols returns all symbols with recorded history, sorted
func (db *DB) Symbols() ([]string, error) {
	query := `SELECT DISTINCT symbol FROM price_points ORDER BY symbol`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}

	return symbols, rows.Err()
}
