package types

// SignedOrder 已签名的订单（调用方签名后提交的完整对象）
type SignedOrder struct {
	Salt          int64  `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          Side   `json:"side"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// NewOrder 提交给上游的订单载荷
type NewOrder struct {
	Order         SignedOrder `json:"order"`
	Owner         string      `json:"owner"`
	OrderType     OrderType   `json:"orderType"`
	ClientOrderID string      `json:"clientOrderId,omitempty"`
	DeferExec     bool        `json:"deferExec"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	Success           bool     `json:"success"`
	ErrorMsg          string   `json:"errorMsg"`
	OrderID           string   `json:"orderID"`
	TransactionHashes []string `json:"transactionsHashes"`
	Status            string   `json:"status"`
	TakingAmount      string   `json:"takingAmount"`
	MakingAmount      string   `json:"makingAmount"`
}

// OpenOrder 开放订单
type OpenOrder struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	Owner           string   `json:"owner"`
	MakerAddress    string   `json:"maker_address"`
	Market          string   `json:"market"`
	AssetID         string   `json:"asset_id"`
	Side            string   `json:"side"`
	OriginalSize    string   `json:"original_size"`
	SizeMatched     string   `json:"size_matched"`
	Price           string   `json:"price"`
	AssociateTrades []string `json:"associate_trades"`
	Outcome         string   `json:"outcome"`
	CreatedAt       int64    `json:"created_at"`
	Expiration      string   `json:"expiration"`
	OrderType       string   `json:"order_type"`
}

// OpenOrdersAPIResponse 上游开放订单响应（游标分页外壳）
type OpenOrdersAPIResponse struct {
	Data       []OpenOrder `json:"data"`
	NextCursor string      `json:"next_cursor"`
	Limit      int         `json:"limit"`
	Count      int         `json:"count"`
}

// CancelBody 批量撤单请求体（bulk-body 约定）
type CancelBody struct {
	OrderIDs []string `json:"orderIDs"`
}

// CancelResult 撤单结果，成功与失败并列返回
type CancelResult struct {
	Cancelled []string `json:"cancelled"`
	Errors    []string `json:"errors"`
}

// AllFailed 是否全部失败
func (r *CancelResult) AllFailed() bool {
	return len(r.Cancelled) == 0 && len(r.Errors) > 0
}
