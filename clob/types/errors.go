package types

import "fmt"

// ValidationError 输入校验失败，未发起任何网络请求
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败: %s %s", e.Field, e.Reason)
}

// NotLinkedError 该地址没有已存储的 API 凭证
type NotLinkedError struct {
	Address string
}

func (e *NotLinkedError) Error() string {
	return fmt.Sprintf("钱包未完成凭证绑定: %s", e.Address)
}

// AuthDerivationError 上游同时拒绝了 create 与 derive
// Upstream 保留上游原文用于诊断
type AuthDerivationError struct {
	Upstream string
}

func (e *AuthDerivationError) Error() string {
	if e.Upstream != "" {
		return fmt.Sprintf("API 凭证创建与推导均被拒绝: %s", e.Upstream)
	}
	return "API 凭证创建与推导均被拒绝"
}

// UpstreamRejected 上游返回 4xx/5xx
type UpstreamRejected struct {
	StatusCode int
	Message    string
}

func (e *UpstreamRejected) Error() string {
	return fmt.Sprintf("上游拒绝请求 (HTTP %d): %s", e.StatusCode, e.Message)
}

// ShapeMismatch 端点形态不匹配（401/404/405），触发备用端点重试
// 只有所有备用端点都失败时才会透出给调用方
type ShapeMismatch struct {
	Path       string
	StatusCode int
}

func (e *ShapeMismatch) Error() string {
	return fmt.Sprintf("端点形态不匹配: %s (HTTP %d)", e.Path, e.StatusCode)
}

// PartialBatchFailure 批量撤单部分失败
type PartialBatchFailure struct {
	Cancelled []string
	Errors    []string
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("批量撤单部分失败: %d 成功, %d 失败", len(e.Cancelled), len(e.Errors))
}
