package cashflows

// Schema is the cash flow table definition, applied at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS cash_flows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL CHECK (type IN ('deposit', 'withdraw', 'dividend', 'interest', 'trade_in', 'trade_out', 'financing_fee')),
	amount REAL NOT NULL CHECK (amount > 0),
	symbol TEXT,
	note TEXT,
	occurred_at INTEGER NOT NULL,
	created_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_cash_flows_type ON cash_flows(type);
CREATE INDEX IF NOT EXISTS idx_cash_flows_occurred_at ON cash_flows(occurred_at);
`
