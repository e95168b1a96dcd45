// Package builder 对接外部 Builder 协签服务。
// 智能合约钱包（Safe 代理）无法在浏览器侧直接签名，下单请求由
// Builder 服务对 {method, path, body, timestamp} 协签，
// 返回一组追加到最终上游请求的 HTTP 头。
package builder

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// SignEndpoint 协签端点
const SignEndpoint = "/sign"

// Client Builder 协签客户端
type Client struct {
	client *resty.Client
}

// NewClient 创建 Builder 客户端
func NewClient(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "relaygate-builder")
	return &Client{client: client}
}

// signRequest 协签请求体
type signRequest struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Body      string `json:"body,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// signResponse 协签响应：直接是要附加的头 map
type signResponse struct {
	Headers map[string]string `json:"headers"`
	Error   string            `json:"error,omitempty"`
}

// SignRequest 请求协签，返回需要附加到上游请求的头
// timestamp 必须与 L2 签名使用的一致，否则两份签名覆盖的消息不同
func (c *Client) SignRequest(ctx context.Context, method, path string, body []byte, timestamp int64) (map[string]string, error) {
	req := signRequest{
		Method:    strings.ToUpper(method),
		Path:      path,
		Timestamp: timestamp,
	}
	if len(body) > 0 {
		req.Body = string(body)
	}

	var out signResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(SignEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "builder 协签请求失败")
	}
	if resp.IsError() {
		return nil, errors.Errorf("builder 协签被拒绝 (HTTP %d): %s", resp.StatusCode(), string(resp.Body()))
	}
	if out.Error != "" {
		return nil, errors.Errorf("builder 协签失败: %s", out.Error)
	}
	if len(out.Headers) == 0 {
		return nil, errors.New("builder 返回空头列表")
	}
	return out.Headers, nil
}
