package cashflows

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles cash flow database operations
type Repository struct {
	ledgerDB *sql.DB
	log      zerolog.Logger
}

const cashFlowColumns = `id, type, amount, symbol, note, occurred_at, created_at`

// NewRepository creates a new cash flow repository
func NewRepository(ledgerDB *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		ledgerDB: ledgerDB,
		log:      log.With().Str("repo", "cashflows").Logger(),
	}
}

// Create inserts a new cash flow record
func (r *Repository) Create(flow CashFlow) (int64, error) {
	if err := flow.Validate(); err != nil {
		return 0, fmt.Errorf("failed to create cash flow: %w", err)
	}

	query := `
		INSERT INTO cash_flows (type, amount, symbol, note, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.ledgerDB.Exec(query,
		string(flow.Type),
		flow.Amount,
		strings.ToUpper(strings.TrimSpace(flow.Symbol)),
		flow.Note,
		flow.OccurredAt.Unix(),
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create cash flow: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read cash flow id: %w", err)
	}

	r.log.Info().
		Str("type", string(flow.Type)).
		Float64("amount", flow.Amount).
		Msg("Cash flow recorded")

	return id, nil
}

// GetAllOrdered retrieves every cash flow in chronological order
func (r *Repository) GetAllOrdered() ([]CashFlow, error) {
	query := `
		SELECT ` + cashFlowColumns + ` FROM cash_flows
		ORDER BY occurred_at ASC, id ASC
	`
	return r.queryFlows(query)
}

// GetByType retrieves cash flows of one type in chronological order
func (r *Repository) GetByType(flowType FlowType) ([]CashFlow, error) {
	query := `
		SELECT ` + cashFlowColumns + ` FROM cash_flows
		WHERE type = ?
		ORDER BY occurred_at ASC, id ASC
	`
	return r.queryFlows(query, string(flowType))
}

// SumByType returns the total amount recorded per flow type
func (r *Repository) SumByType() (map[FlowType]float64, error) {
	rows, err := r.ledgerDB.Query("SELECT type, COALESCE(SUM(amount), 0) FROM cash_flows GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("failed to sum cash flows: %w", err)
	}
	defer rows.Close()

	sums := make(map[FlowType]float64)
	for rows.Next() {
		var flowType string
		var total float64
		if err := rows.Scan(&flowType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow sum: %w", err)
		}
		sums[FlowType(flowType)] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow sums: %w", err)
	}

	return sums, nil
}

// Delete removes a cash flow by id. Returns sql.ErrNoRows when it does not exist.
func (r *Repository) Delete(id int64) error {
	result, err := r.ledgerDB.Exec("DELETE FROM cash_flows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) queryFlows(query string, args ...interface{}) ([]CashFlow, error) {
	rows, err := r.ledgerDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flows: %w", err)
	}
	defer rows.Close()

	var flows []CashFlow
	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash flow: %w", err)
		}
		flows = append(flows, flow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flows: %w", err)
	}

	return flows, nil
}

func scanFlow(rows *sql.Rows) (CashFlow, error) {
	var flow CashFlow
	var symbol, note sql.NullString
	var occurredAt, createdAt sql.NullInt64

	err := rows.Scan(
		&flow.ID,
		&flow.Type,
		&flow.Amount,
		&symbol,
		&note,
		&occurredAt,
		&createdAt,
	)
	if err != nil {
		return flow, err
	}

	if symbol.Valid {
		flow.Symbol = symbol.String
	}
	if note.Valid {
		flow.Note = note.String
	}
	if occurredAt.Valid {
		flow.OccurredAt = time.Unix(occurredAt.Int64, 0).UTC()
	}
	if createdAt.Valid {
		t := time.Unix(createdAt.Int64, 0).UTC()
		flow.CreatedAt = &t
	}

	return flow, nil
}
