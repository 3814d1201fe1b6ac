package portfolio

// Schema is the holdings table definition, applied at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS holdings (
	symbol TEXT PRIMARY KEY,
	quantity REAL NOT NULL CHECK (quantity >= 0),
	avg_cost REAL NOT NULL CHECK (avg_cost >= 0),
	updated_at INTEGER
);
`
