package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperstreet/stocksim/internal/models"
)

// CreateUser inserts a user account, updating cash on conflict
func (db *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (email, cash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			cash = EXCLUDED.cash
	`
	now := time.Now()
	if _, err := db.conn.Exec(query, u.Email, decimal.NewFromFloat(u.Cash), now); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if u.CreatedAt == "" {
		u.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	return nil
}

// GetUserByEmail retrieves a user with their holdings
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT email, cash, created_at FROM users WHERE email = $1`

	var u models.User
	var cash sql.NullString
	var createdAt time.Time

	err := db.conn.QueryRow(query, email).Scan(&u.Email, &cash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if cash.Valid {
		d, err := decimal.NewFromString(cash.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cash %q: %w", cash.String, err)
		}
		u.Cash = d.InexactFloat64()
	}
	u.CreatedAt = createdAt.UTC().Format(time.RFC3339)

	holdings, err := db.holdingsFor(email)
	if err != nil {
		return nil, err
	}
	u.Holdings = holdings
	return &u, nil
}

func (db *DB) holdingsFor(email string) (map[string]int, error) {
	query := `SELECT symbol, quantity FROM holdings WHERE user_email = $1`
	rows, err := db.conn.Query(query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings for %s: %w", email, err)
	}
	defer rows.Close()

	holdings := make(map[string]int)
	for rows.Next() {
		var symbol string
		var qty int
		if err := rows.Scan(&symbol, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings[symbol] = qty
	}
	return holdings, rows.Err()
}

// SetHolding upserts one holding; a zero quantity removes the row
func (db *DB) SetHolding(email, symbol string, quantity int) error {
	if quantity <= 0 {
		query := `DELETE FROM holdings WHERE user_email = $1 AND symbol = $2`
		if _, err := db.conn.Exec(query, email, symbol); err != nil {
			return fmt.Errorf("failed to delete holding: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO holdings (user_email, symbol, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_email, symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity
	`
	if _, err := db.conn.Exec(query, email, symbol, quantity); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// HoldingSymbols returns every symbol held by any user, sorted
func (db *DB) HoldingSymbols() ([]string, error) {
	query := `SELECT DISTINCT symbol FROM holdings WHERE quantity > 0 ORDER BY symbol`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list held symbols: %w", err)
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
