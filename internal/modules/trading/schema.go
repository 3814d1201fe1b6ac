package trading

// Schema is the DDL for the trade ledger, applied at startup.
// The ledger is append-only; rows are never updated or deleted.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol      TEXT NOT NULL,
    side        TEXT NOT NULL CHECK (side IN ('BUY', 'SELL', 'DIVIDEND')),
    quantity    REAL NOT NULL CHECK (quantity > 0),
    price       REAL NOT NULL CHECK (price > 0),
    executed_at INTEGER NOT NULL,
    order_id    TEXT,
    created_at  INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_order_id
    ON trades(order_id) WHERE order_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_executed_at ON trades(executed_at);
`
