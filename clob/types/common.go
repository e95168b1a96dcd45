package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side 订单方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide 在边界处归一化订单方向
// 上游在不同调用点可能返回 "BUY"/"SELL"、"buy"/"sell" 或数字 0/1，
// 这里统一转换成两值枚举，之后的调用链不再接触原始编码
func ParseSide(raw any) (Side, error) {
	switch v := raw.(type) {
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "BUY", "0":
			return SideBuy, nil
		case "SELL", "1":
			return SideSell, nil
		}
		return "", fmt.Errorf("未知的订单方向: %q", v)
	case float64:
		// JSON 数字统一解码为 float64
		switch int(v) {
		case 0:
			return SideBuy, nil
		case 1:
			return SideSell, nil
		}
		return "", fmt.Errorf("未知的订单方向: %v", v)
	case int:
		switch v {
		case 0:
			return SideBuy, nil
		case 1:
			return SideSell, nil
		}
		return "", fmt.Errorf("未知的订单方向: %d", v)
	case json.Number:
		return ParseSide(v.String())
	case Side:
		return v, nil
	}
	return "", fmt.Errorf("无法识别的订单方向类型: %T", raw)
}

// Valid 检查方向是否合法
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderType 订单类型
type OrderType string

const (
	OrderTypeGTC OrderType = "GTC" // Good Till Cancel - 一直有效直到取消
	OrderTypeFOK OrderType = "FOK" // Fill or Kill - 全部成交或全部取消
	OrderTypeGTD OrderType = "GTD" // Good Till Date - 指定日期前有效
	OrderTypeFAK OrderType = "FAK" // Fill and Kill - 部分成交，剩余取消
)

// ValidOrderType 检查订单类型是否合法
func ValidOrderType(t OrderType) bool {
	switch t {
	case OrderTypeGTC, OrderTypeFOK, OrderTypeGTD, OrderTypeFAK:
		return true
	}
	return false
}

// WalletType 钱包类型，决定下单走哪条路径
type WalletType string

const (
	// WalletTypeEOA 普通钱包，调用方本地签名，网关直接转发
	WalletTypeEOA WalletType = "eoa"
	// WalletTypeSafe 智能合约钱包（Safe 代理），需要 Builder 服务协签
	WalletTypeSafe WalletType = "safe"
)

// CancelConvention 撤单签名约定（按部署配置，不探测）
// 两种上游部署形态的撤单端点对签名内容的要求不同：
// path-only 逐单 DELETE 且无请求体，bulk-body 单次 DELETE 携带 id 列表
type CancelConvention string

const (
	CancelPathOnly CancelConvention = "path-only"
	CancelBulkBody CancelConvention = "bulk-body"
)

// ApiKeyCreds API 密钥凭证
type ApiKeyCreds struct {
	Key        string `json:"apiKey"`
	Secret     string `json:"apiSecret"`
	Passphrase string `json:"apiPassphrase"`
}

// ApiKeyRaw 原始 API 密钥（上游返回格式）
type ApiKeyRaw struct {
	ApiKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}
