package trading

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TradeRepository handles trade ledger database operations
type TradeRepository struct {
	ledgerDB *sql.DB
	log      zerolog.Logger
}

// tradesColumns is the list of columns for the trades table.
// Column order must match the scan helpers below.
const tradesColumns = `id, symbol, side, quantity, price, executed_at, order_id, created_at`

// NewTradeRepository creates a new trade repository
func NewTradeRepository(ledgerDB *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		ledgerDB: ledgerDB,
		log:      log.With().Str("repo", "trade").Logger(),
	}
}

// Create inserts a new trade record. Trades without an order ID get a
// generated one so duplicate submissions can be detected. The returned flag
// is false when a trade with the same order_id was already on the ledger and
// the submission was skipped, so callers can avoid replaying its effects.
func (r *TradeRepository) Create(trade Trade) (bool, error) {
	if err := trade.Validate(); err != nil {
		return false, fmt.Errorf("failed to create trade: %w", err)
	}

	if trade.OrderID == "" {
		trade.OrderID = uuid.NewString()
	} else {
		exists, err := r.Exists(trade.OrderID)
		if err != nil {
			return false, fmt.Errorf("failed to check for existing trade: %w", err)
		}
		if exists {
			r.log.Debug().
				Str("order_id", trade.OrderID).
				Msg("Trade with order_id already exists, skipping duplicate")
			return false, nil
		}
	}

	query := `
		INSERT INTO trades (symbol, side, quantity, price, executed_at, order_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.ledgerDB.Exec(query,
		strings.ToUpper(strings.TrimSpace(trade.Symbol)),
		string(trade.Side),
		trade.Quantity,
		trade.Price,
		trade.ExecutedAt.Unix(),
		trade.OrderID,
		time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Info().
		Str("symbol", trade.Symbol).
		Str("side", string(trade.Side)).
		Float64("quantity", trade.Quantity).
		Msg("Trade created")

	return true, nil
}

// Exists checks if a trade with the given order_id already exists
func (r *TradeRepository) Exists(orderID string) (bool, error) {
	var exists int
	err := r.ledgerDB.QueryRow("SELECT 1 FROM trades WHERE order_id = ? LIMIT 1", orderID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check trade existence: %w", err)
	}
	return true, nil
}

// GetHistory retrieves trade history, most recent first, with paging
func (r *TradeRepository) GetHistory(page, pageSize int) ([]Trade, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `
		SELECT ` + tradesColumns + ` FROM trades
		ORDER BY executed_at DESC
		LIMIT ? OFFSET ?
	`
	return r.queryTrades(query, pageSize, offset)
}

// GetAllOrdered retrieves the full ledger in chronological order.
// This is the analytics engine's trade input.
func (r *TradeRepository) GetAllOrdered() ([]Trade, error) {
	query := `
		SELECT ` + tradesColumns + ` FROM trades
		ORDER BY executed_at ASC, id ASC
	`
	return r.queryTrades(query)
}

// GetBuysOrdered retrieves all BUY trades in chronological order
func (r *TradeRepository) GetBuysOrdered() ([]Trade, error) {
	query := `
		SELECT ` + tradesColumns + ` FROM trades
		WHERE side = 'BUY'
		ORDER BY executed_at ASC, id ASC
	`
	return r.queryTrades(query)
}

// GetBySymbol retrieves trades for a specific symbol, most recent first
func (r *TradeRepository) GetBySymbol(symbol string, limit int) ([]Trade, error) {
	query := `
		SELECT ` + tradesColumns + ` FROM trades
		WHERE symbol = ?
		ORDER BY executed_at DESC
		LIMIT ?
	`
	return r.queryTrades(query, strings.ToUpper(strings.TrimSpace(symbol)), limit)
}

// CountAll returns the number of ledger entries
func (r *TradeRepository) CountAll() (int, error) {
	var count int
	if err := r.ledgerDB.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

func (r *TradeRepository) queryTrades(query string, args ...interface{}) ([]Trade, error) {
	rows, err := r.ledgerDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

func scanTrade(rows *sql.Rows) (Trade, error) {
	var trade Trade
	var executedAt, createdAt sql.NullInt64
	var orderID sql.NullString

	err := rows.Scan(
		&trade.ID,
		&trade.Symbol,
		&trade.Side,
		&trade.Quantity,
		&trade.Price,
		&executedAt,
		&orderID,
		&createdAt,
	)
	if err != nil {
		return trade, err
	}

	if executedAt.Valid {
		trade.ExecutedAt = time.Unix(executedAt.Int64, 0).UTC()
	}
	if createdAt.Valid {
		t := time.Unix(createdAt.Int64, 0).UTC()
		trade.CreatedAt = &t
	}
	if orderID.Valid {
		trade.OrderID = orderID.String
	}

	trade.Symbol = strings.ToUpper(strings.TrimSpace(trade.Symbol))

	return trade, nil
}
