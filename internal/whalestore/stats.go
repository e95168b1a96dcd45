package whalestore

import (
	"context"
	"time"
)

// Stats 滚动统计
// 每次读取都从去重后的存量数据全量重算，绝不增量累加，避免漂移
type Stats struct {
	TotalAmount float64 `json:"totalAmount"`
	TradeCount  int     `json:"tradeCount"`
	BuyVolume   float64 `json:"buyVolume"`
	SellVolume  float64 `json:"sellVolume"`
	YesVolume   float64 `json:"yesVolume"`
	NoVolume    float64 `json:"noVolume"`
	// NetFlow = yesVolume − noVolume
	NetFlow float64 `json:"netFlow"`
	// HotMarkets 窗口内有 ≥2 笔达标交易的市场数
	HotMarkets int `json:"hotMarkets"`
	// WindowStart 统计窗口起点
	WindowStart time.Time `json:"windowStart"`
}

// ComputeStats 在滑动窗口内全量重算统计
func (s *Store) ComputeStats(ctx context.Context, window time.Duration) (*Stats, error) {
	since := time.Now().UTC().Add(-window)
	stats := &Stats{WindowStart: since}

	rows, err := s.db.QueryContext(ctx, `
SELECT market_question, side, outcome, amount
FROM whale_trades WHERE ts >= ?
`, since.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marketCounts := make(map[string]int)
	for rows.Next() {
		var market, side, outcome string
		var amount float64
		if err := rows.Scan(&market, &side, &outcome, &amount); err != nil {
			return nil, err
		}

		stats.TotalAmount += amount
		stats.TradeCount++
		switch side {
		case "BUY":
			stats.BuyVolume += amount
		case "SELL":
			stats.SellVolume += amount
		}
		switch outcome {
		case "Yes", "YES":
			stats.YesVolume += amount
		case "No", "NO":
			stats.NoVolume += amount
		}
		marketCounts[market]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.NetFlow = stats.YesVolume - stats.NoVolume
	for _, n := range marketCounts {
		if n >= 2 {
			stats.HotMarkets++
		}
	}
	return stats, nil
}
