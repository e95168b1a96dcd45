package types

// Position 持仓（data-api 公共余额端点返回，不需要认证）
type Position struct {
	Asset          string  `json:"asset"`
	ConditionID    string  `json:"conditionId"`
	Size           float64 `json:"size"`
	AvgPrice       float64 `json:"avgPrice"`
	CurPrice       float64 `json:"curPrice"`
	InitialValue   float64 `json:"initialValue"`
	CurrentValue   float64 `json:"currentValue"`
	CashPnl        float64 `json:"cashPnl"`
	PercentPnl     float64 `json:"percentPnl"`
	RealizedPnl    float64 `json:"realizedPnl"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Outcome        string  `json:"outcome"`
	OutcomeIndex   int     `json:"outcomeIndex"`
	Redeemable     bool    `json:"redeemable"`
	ProxyWallet    string  `json:"proxyWallet"`
	EndDate        string  `json:"endDate"`
}

// ActivityItem 批量订单活动流中的一条记录（data-api /trades，公共端点）
type ActivityItem struct {
	ProxyWallet     string  `json:"proxyWallet"`
	Side            string  `json:"side"`
	ConditionID     string  `json:"conditionId"`
	Size            float64 `json:"size"`
	Price           float64 `json:"price"`
	Timestamp       int64   `json:"timestamp"`
	Outcome         string  `json:"outcome"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	TransactionHash string  `json:"transactionHash"`
}
