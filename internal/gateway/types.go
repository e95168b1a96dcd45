package gateway

import "github.com/betbot/relaygate/clob/types"

// linkRequest 凭证绑定请求
// Signature 是钱包对 ClobAuth 挑战消息的 EIP712 签名
type linkRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Timestamp int64  `json:"timestamp" binding:"required"`
	Nonce     int64  `json:"nonce"`
}

// placeOrderRequest 下单请求
// Side 接受 "BUY"/"SELL" 或数字 0/1，在边界处归一化
type placeOrderRequest struct {
	Address    string            `json:"address" binding:"required"`
	WalletType string            `json:"walletType"`
	TokenID    string            `json:"tokenId"`
	Side       any               `json:"side"`
	Size       float64           `json:"size"`
	Price      float64           `json:"price"`
	OrderType  string            `json:"orderType"`
	Order      types.SignedOrder `json:"order" binding:"required"`
}

// cancelRequest 撤单请求，一个或多个订单 id
type cancelRequest struct {
	Address  string   `json:"address" binding:"required"`
	OrderIDs []string `json:"orderIds" binding:"required,min=1"`
}

// portfolioResponse 组合视图：持仓 + 开放订单拼装
type portfolioResponse struct {
	Address    string            `json:"address"`
	Positions  []types.Position  `json:"positions"`
	OpenOrders []types.OpenOrder `json:"openOrders"`
	// PositionsErr / OrdersErr 任一侧失败时保留另一侧结果
	PositionsErr string `json:"positionsError,omitempty"`
	OrdersErr    string `json:"ordersError,omitempty"`
}
