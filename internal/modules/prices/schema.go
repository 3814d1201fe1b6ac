package prices

// Schema is the DDL for the price history table, applied at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS price_history (
    symbol TEXT NOT NULL,
    date   TEXT NOT NULL,           -- YYYY-MM-DD, normalized calendar date
    close  REAL NOT NULL CHECK (close >= 0),
    volume INTEGER,
    PRIMARY KEY (symbol, date)
);

CREATE INDEX IF NOT EXISTS idx_price_history_date ON price_history(date);
`
