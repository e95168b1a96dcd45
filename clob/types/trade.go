package types

// Trade 成交记录（上游 /data/trades 返回格式）
// ID 由上游分配且不可变，作为去重键
type Trade struct {
	ID              string `json:"id"`
	TakerOrderID    string `json:"taker_order_id"`
	Market          string `json:"market"`
	AssetID         string `json:"asset_id"`
	Side            string `json:"side"`
	Size            string `json:"size"`
	Price           string `json:"price"`
	Status          string `json:"status"`
	MatchTime       string `json:"match_time"`
	LastUpdate      string `json:"last_update"`
	Outcome         string `json:"outcome"`
	MakerAddress    string `json:"maker_address"`
	Owner           string `json:"owner"`
	TransactionHash string `json:"transaction_hash"`
}

// TradeParams 成交查询参数
// Maker 与 Taker 互斥使用：同一个用户的成交需要分别按两个角色各查一次
type TradeParams struct {
	Maker string
	Taker string
	After int64
}

// TradesAPIResponse 上游成交响应（游标分页外壳）
type TradesAPIResponse struct {
	Data       []Trade `json:"data"`
	NextCursor string  `json:"next_cursor"`
	Limit      int     `json:"limit"`
	Count      int     `json:"count"`
}
