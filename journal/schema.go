package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	session_id TEXT NOT NULL,
	signal_id TEXT NOT NULL,
	pair_symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	entry_commission REAL NOT NULL,
	close_time DATETIME NOT NULL,
	close_price REAL NOT NULL,
	close_reason TEXT NOT NULL,
	gross_pnl REAL NOT NULL,
	exit_commission REAL NOT NULL,
	net_pnl REAL NOT NULL,
	peak_favorable_price REAL NOT NULL,
	max_potential_net_pnl REAL NOT NULL,
	PRIMARY KEY (session_id, signal_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_session ON trades(session_id);
CREATE INDEX IF NOT EXISTS idx_trades_close_reason ON trades(close_reason);

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	exchange_id TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	initial_capital REAL NOT NULL,
	final_equity REAL NOT NULL,
	min_equity REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	total_pnl_usd REAL NOT NULL,
	profit_factor REAL NOT NULL,
	max_drawdown_usd REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL
);
`
