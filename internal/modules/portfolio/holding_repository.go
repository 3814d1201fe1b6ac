package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockfolio/internal/database"
)

// HoldingRepository handles holdings database operations
type HoldingRepository struct {
	marketDB *sql.DB
	log      zerolog.Logger
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(marketDB *sql.DB, log zerolog.Logger) *HoldingRepository {
	return &HoldingRepository{
		marketDB: marketDB,
		log:      log.With().Str("repo", "holdings").Logger(),
	}
}

// ApplyFill merges an executed buy or sell into the held position. Buys
// blend the average cost by quantity weight; sells reduce quantity and keep
// the cost basis. A sell that would take the position negative is rejected,
// and a position sold down to zero is removed.
func (r *HoldingRepository) ApplyFill(symbol string, quantity, price float64, isBuy bool) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("holding symbol is required")
	}
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("fill quantity and price must be positive")
	}

	return database.WithTransaction(r.marketDB, func(tx *sql.Tx) error {
		var heldQty, avgCost float64
		err := tx.QueryRow("SELECT quantity, avg_cost FROM holdings WHERE symbol = ?", symbol).
			Scan(&heldQty, &avgCost)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read holding: %w", err)
		}

		var newQty, newCost float64
		if isBuy {
			newQty = heldQty + quantity
			newCost = (heldQty*avgCost + quantity*price) / newQty
		} else {
			newQty = heldQty - quantity
			newCost = avgCost
			if newQty < 0 {
				return fmt.Errorf("cannot sell %f of %s, only %f held", quantity, symbol, heldQty)
			}
		}

		if newQty == 0 {
			_, err = tx.Exec("DELETE FROM holdings WHERE symbol = ?", symbol)
			if err != nil {
				return fmt.Errorf("failed to remove closed holding: %w", err)
			}
			return nil
		}

		_, err = tx.Exec(`
			INSERT INTO holdings (symbol, quantity, avg_cost, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(symbol) DO UPDATE SET
				quantity = excluded.quantity,
				avg_cost = excluded.avg_cost,
				updated_at = excluded.updated_at
		`, symbol, newQty, newCost, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("failed to upsert holding: %w", err)
		}
		return nil
	})
}

// Upsert writes a holding directly, replacing any existing row
func (r *HoldingRepository) Upsert(holding Holding) error {
	if err := holding.Validate(); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	_, err := r.marketDB.Exec(`
		INSERT INTO holdings (symbol, quantity, avg_cost, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			quantity = excluded.quantity,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at
	`, strings.ToUpper(strings.TrimSpace(holding.Symbol)), holding.Quantity, holding.AvgCost, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// GetAll retrieves every holding ordered by symbol
func (r *HoldingRepository) GetAll() ([]Holding, error) {
	rows, err := r.marketDB.Query("SELECT symbol, quantity, avg_cost, updated_at FROM holdings ORDER BY symbol ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		var holding Holding
		var updatedAt sql.NullInt64
		if err := rows.Scan(&holding.Symbol, &holding.Quantity, &holding.AvgCost, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		if updatedAt.Valid {
			t := time.Unix(updatedAt.Int64, 0).UTC()
			holding.UpdatedAt = &t
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// Get retrieves one holding by symbol. Returns sql.ErrNoRows when absent.
func (r *HoldingRepository) Get(symbol string) (Holding, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var holding Holding
	var updatedAt sql.NullInt64
	err := r.marketDB.QueryRow("SELECT symbol, quantity, avg_cost, updated_at FROM holdings WHERE symbol = ?", symbol).
		Scan(&holding.Symbol, &holding.Quantity, &holding.AvgCost, &updatedAt)
	if err != nil {
		return Holding{}, err
	}
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		holding.UpdatedAt = &t
	}
	return holding, nil
}

// Delete removes a holding by symbol. Returns sql.ErrNoRows when absent.
func (r *HoldingRepository) Delete(symbol string) error {
	result, err := r.marketDB.Exec("DELETE FROM holdings WHERE symbol = ?", strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
