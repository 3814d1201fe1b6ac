package prices

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/stockfolio/internal/database"
	"github.com/rs/zerolog"
)

// Repository handles price history database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new price history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "prices").Logger(),
	}
}

// NormalizeDate accepts YYYY-MM-DD or RFC3339 timestamps and returns the
// normalized calendar date (YYYY-MM-DD, UTC). Timestamps lose their time
// component.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", value)
}

// UpsertBars inserts or replaces price bars for a symbol in one transaction.
// Bar dates are normalized; same-day re-imports overwrite the previous close.
func (r *Repository) UpsertBars(symbol string, bars []PriceBar) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT OR REPLACE INTO price_history (symbol, date, close, volume)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, bar := range bars {
			date, err := NormalizeDate(bar.Date)
			if err != nil {
				return err
			}
			if bar.Close < 0 {
				return fmt.Errorf("negative close %f for %s on %s", bar.Close, symbol, date)
			}

			if _, err := stmt.Exec(symbol, date, bar.Close, nullInt64Ptr(bar.Volume)); err != nil {
				return fmt.Errorf("failed to upsert bar %s/%s: %w", symbol, date, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Str("symbol", symbol).Int("bars", len(bars)).Msg("Price bars stored")
	return nil
}

// GetAllOrdered returns the full price history ordered by symbol and date
// ascending. This is the analytics engine's price input.
func (r *Repository) GetAllOrdered() ([]PriceBar, error) {
	return r.queryBars(`
		SELECT symbol, date, close, volume FROM price_history
		ORDER BY symbol ASC, date ASC
	`)
}

// GetBySymbols returns the price history of the given symbols ordered by
// symbol and date ascending.
func (r *Repository) GetBySymbols(symbols []string) ([]PriceBar, error) {
	if len(symbols) == 0 {
		return []PriceBar{}, nil
	}

	placeholders := make([]string, len(symbols))
	args := make([]interface{}, len(symbols))
	for i, s := range symbols {
		placeholders[i] = "?"
		args[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	query := `
		SELECT symbol, date, close, volume FROM price_history
		WHERE symbol IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY symbol ASC, date ASC
	`
	return r.queryBars(query, args...)
}

// GetLatestCloses returns each symbol's most recent close.
func (r *Repository) GetLatestCloses() (map[string]float64, error) {
	rows, err := r.db.Query(`
		SELECT p.symbol, p.close
		FROM price_history p
		JOIN (
			SELECT symbol, MAX(date) AS max_date
			FROM price_history
			GROUP BY symbol
		) latest ON p.symbol = latest.symbol AND p.date = latest.max_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest closes: %w", err)
	}
	defer rows.Close()

	closes := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var close float64
		if err := rows.Scan(&symbol, &close); err != nil {
			return nil, fmt.Errorf("failed to scan latest close: %w", err)
		}
		closes[symbol] = close
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating latest closes: %w", err)
	}

	return closes, nil
}

// GetLatestQuotes returns the latest price for each symbol with its change
// against the previous trading day. Symbols without any price data are
// skipped; symbols without a previous bar report zero change.
func (r *Repository) GetLatestQuotes(symbols []string) ([]Quote, error) {
	quotes := make([]Quote, 0, len(symbols))

	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}

		rows, err := r.db.Query(`
			SELECT date, close, volume FROM price_history
			WHERE symbol = ?
			ORDER BY date DESC
			LIMIT 2
		`, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to query quotes for %s: %w", symbol, err)
		}

		var bars []PriceBar
		for rows.Next() {
			var bar PriceBar
			var volume sql.NullInt64
			if err := rows.Scan(&bar.Date, &bar.Close, &volume); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan quote for %s: %w", symbol, err)
			}
			if volume.Valid {
				bar.Volume = &volume.Int64
			}
			bars = append(bars, bar)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating quotes for %s: %w", symbol, err)
		}
		rows.Close()

		if len(bars) == 0 {
			r.log.Debug().Str("symbol", symbol).Msg("No price data for symbol, skipping quote")
			continue
		}

		quote := Quote{
			Symbol: symbol,
			Price:  bars[0].Close,
			Date:   bars[0].Date,
		}
		if bars[0].Volume != nil {
			quote.Volume = *bars[0].Volume
		}
		if len(bars) == 2 && bars[1].Close != 0 {
			quote.Change = bars[0].Close - bars[1].Close
			quote.ChangePercent = quote.Change / bars[1].Close * 100
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// CountBars returns the number of stored price bars
func (r *Repository) CountBars() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM price_history").Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count price bars: %w", err)
	}
	return count, nil
}

func (r *Repository) queryBars(query string, args ...interface{}) ([]PriceBar, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var bars []PriceBar
	for rows.Next() {
		var bar PriceBar
		var volume sql.NullInt64
		if err := rows.Scan(&bar.Symbol, &bar.Date, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		if volume.Valid {
			bar.Volume = &volume.Int64
		}
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price bars: %w", err)
	}

	return bars, nil
}

func nullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
