// Package whalestore 持久化聚合管道筛出的大额交易。
// sqlite 单文件库，trade_hash 上有唯一约束，写入走
// INSERT ... ON CONFLICT DO NOTHING：重跑重叠时间窗口不会产生重复行。
// UI 层直接读这张表。
package whalestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// WhaleTrade 大额交易行
type WhaleTrade struct {
	ID             int64     `json:"id"`
	MarketQuestion string    `json:"marketQuestion"`
	Side           string    `json:"side"`
	Outcome        string    `json:"outcome"`
	Size           float64   `json:"size"`
	Price          float64   `json:"price"`
	Amount         float64   `json:"amount"`
	Platform       string    `json:"platform"`
	Wallet         string    `json:"wallet"`
	Timestamp      time.Time `json:"timestamp"`
	TradeHash      string    `json:"tradeHash"`
}

// Store 大额交易存储
type Store struct {
	db *sql.DB
}

// Open 打开存储并执行迁移
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite：单连接更稳定
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close 关闭存储
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS whale_trades (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  market_question TEXT NOT NULL,
  side TEXT NOT NULL,
  outcome TEXT NOT NULL,
  size REAL NOT NULL,
  price REAL NOT NULL,
  amount REAL NOT NULL,
  platform TEXT NOT NULL,
  wallet TEXT NOT NULL,
  ts TEXT NOT NULL,
  trade_hash TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_whale_trades_ts ON whale_trades(ts);`,
		`CREATE INDEX IF NOT EXISTS idx_whale_trades_market ON whale_trades(market_question);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate: %s", stmt)
		}
	}
	return nil
}

// Upsert 按 trade_hash 幂等写入；返回是否真的插入了新行
func (s *Store) Upsert(ctx context.Context, t WhaleTrade) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO whale_trades (market_question, side, outcome, size, price, amount, platform, wallet, ts, trade_hash, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(trade_hash) DO NOTHING
`, t.MarketQuestion, t.Side, t.Outcome, t.Size, t.Price, t.Amount, t.Platform, t.Wallet,
		t.Timestamp.UTC().Format(time.RFC3339Nano), t.TradeHash, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListRecent 按时间降序取最近 limit 条
func (s *Store) ListRecent(ctx context.Context, limit int) ([]WhaleTrade, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, market_question, side, outcome, size, price, amount, platform, wallet, ts, trade_hash
FROM whale_trades ORDER BY ts DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WhaleTrade
	for rows.Next() {
		var t WhaleTrade
		var ts string
		if err := rows.Scan(&t.ID, &t.MarketQuestion, &t.Side, &t.Outcome, &t.Size, &t.Price, &t.Amount, &t.Platform, &t.Wallet, &ts, &t.TradeHash); err != nil {
			return nil, err
		}
		t.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count 全表计数（幂等性测试用）
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM whale_trades`).Scan(&n)
	return n, err
}
