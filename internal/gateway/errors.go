package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/betbot/relaygate/clob/types"
)

// 错误码
const (
	CodeValidation            = "VALIDATION"
	CodeNotLinked             = "NOT_LINKED"
	CodeAuthDerivation        = "AUTH_DERIVATION"
	CodeUpstreamRejected      = "UPSTREAM_REJECTED"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeInsufficientAllowance = "INSUFFICIENT_ALLOWANCE"
	CodeMarketClosed          = "MARKET_CLOSED"
	CodeInvalidPrice          = "INVALID_PRICE"
	CodeMinimumSize           = "MINIMUM_SIZE"
	CodeInternal              = "INTERNAL"
)

// classify 把类型化错误映射到 HTTP 状态码 / 错误码 / 文案。
// 上游原文始终保留在 details 里，给用户的 message 只给分类结果
func classify(err error) (status int, code, message, details string) {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, CodeValidation, ve.Error(), ""
	}

	var nle *types.NotLinkedError
	if errors.As(err, &nle) {
		return http.StatusForbidden, CodeNotLinked, "该钱包尚未绑定 API 凭证，请先完成绑定", nle.Address
	}

	var ade *types.AuthDerivationError
	if errors.As(err, &ade) {
		return http.StatusBadGateway, CodeAuthDerivation, "上游拒绝了凭证创建与推导", ade.Upstream
	}

	var ur *types.UpstreamRejected
	if errors.As(err, &ur) {
		code, message = categorizeUpstream(ur.Message)
		return http.StatusBadGateway, code, message, ur.Message
	}

	var sm *types.ShapeMismatch
	if errors.As(err, &sm) {
		return http.StatusBadGateway, CodeUpstreamRejected, "所有候选端点都不可用", sm.Error()
	}

	return http.StatusInternalServerError, CodeInternal, "内部错误", err.Error()
}

// categorizeUpstream 把上游错误原文按关键词归类成用户可理解的类别。
// 中英文都要识别；匹配不到时落回通用的上游拒绝
func categorizeUpstream(msg string) (code, message string) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "not enough balance") ||
		strings.Contains(msgLower, "insufficient balance") ||
		strings.Contains(msg, "余额不足"):
		return CodeInsufficientBalance, "余额不足"
	case strings.Contains(msgLower, "allowance"):
		return CodeInsufficientAllowance, "授权额度不足"
	case strings.Contains(msgLower, "market is closed") ||
		strings.Contains(msgLower, "market closed") ||
		strings.Contains(msgLower, "not accepting orders"):
		return CodeMarketClosed, "市场已关闭"
	case strings.Contains(msgLower, "invalid price") ||
		strings.Contains(msgLower, "price out of range"):
		return CodeInvalidPrice, "价格非法"
	case strings.Contains(msgLower, "minimum") ||
		strings.Contains(msgLower, "min size") ||
		strings.Contains(msgLower, "order size too small"):
		return CodeMinimumSize, "低于最小下单量"
	case strings.Contains(msgLower, "api key") ||
		strings.Contains(msgLower, "unauthorized") ||
		strings.Contains(msgLower, "invalid signature"):
		return CodeNotLinked, "凭证无效或已过期，请重新绑定"
	}
	return CodeUpstreamRejected, "上游拒绝了请求"
}
