package types

// L2HeaderArgs L2 认证头参数
// RequestPath 只包含路径部分，查询串不参与签名
type L2HeaderArgs struct {
	Method      string
	RequestPath string
	Body        *string
}

// L1PolyHeader L1 认证头（钱包对 challenge 的 EIP712 签名）
// 网关本身不持有私钥，签名由 UI 层的钱包产生后透传
type L1PolyHeader struct {
	PolyAddress   string `json:"POLY_ADDRESS"`
	PolySignature string `json:"POLY_SIGNATURE"`
	PolyTimestamp string `json:"POLY_TIMESTAMP"`
	PolyNonce     string `json:"POLY_NONCE"`
}

// L2PolyHeader L2 认证头（API 密钥 + HMAC 签名）
type L2PolyHeader struct {
	PolyAddress    string `json:"POLY_ADDRESS"`
	PolySignature  string `json:"POLY_SIGNATURE"`
	PolyTimestamp  string `json:"POLY_TIMESTAMP"`
	PolyAPIKey     string `json:"POLY_API_KEY"`
	PolyPassphrase string `json:"POLY_PASSPHRASE"`
}

// Map 转换为 HTTP 头 map
func (h *L1PolyHeader) Map() map[string]string {
	return map[string]string{
		"POLY_ADDRESS":   h.PolyAddress,
		"POLY_SIGNATURE": h.PolySignature,
		"POLY_TIMESTAMP": h.PolyTimestamp,
		"POLY_NONCE":     h.PolyNonce,
	}
}

// Map 转换为 HTTP 头 map
func (h *L2PolyHeader) Map() map[string]string {
	return map[string]string{
		"POLY_ADDRESS":    h.PolyAddress,
		"POLY_SIGNATURE":  h.PolySignature,
		"POLY_TIMESTAMP":  h.PolyTimestamp,
		"POLY_API_KEY":    h.PolyAPIKey,
		"POLY_PASSPHRASE": h.PolyPassphrase,
	}
}
