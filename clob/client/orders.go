package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/signing"
	"github.com/betbot/relaygate/clob/types"
)

// BuilderSigner Builder 协签服务
// 智能合约钱包（Safe）无法本地签名，由外部 Builder 服务补齐认证头
type BuilderSigner interface {
	SignRequest(ctx context.Context, method, path string, body []byte, timestamp int64) (map[string]string, error)
}

// ValidateOrderArgs 下单前的参数校验，违规直接短路，不发起任何网络请求
func ValidateOrderArgs(tokenID string, side types.Side, size, price float64, orderType types.OrderType) error {
	if tokenID == "" {
		return &types.ValidationError{Field: "tokenId", Reason: "不能为空"}
	}
	if !side.Valid() {
		return &types.ValidationError{Field: "side", Reason: "必须是 BUY 或 SELL"}
	}
	if size <= 0 {
		return &types.ValidationError{Field: "size", Reason: "必须大于 0"}
	}
	if price < 0.01 || price > 0.99 {
		return &types.ValidationError{Field: "price", Reason: "必须在 [0.01, 0.99] 区间内"}
	}
	if !types.ValidOrderType(orderType) {
		return &types.ValidationError{Field: "orderType", Reason: "必须是 GTC/FOK/FAK/GTD 之一"}
	}
	return nil
}

// PostOrder 提交已签名订单（direct 路径）
// 附加 uuid 作为幂等键；签名覆盖 path+body，body 字节与实际发送的完全一致
func (c *Client) PostOrder(ctx context.Context, order *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx, "clob:order:post"); err != nil {
		return nil, errors.Wrap(err, "速率限制等待失败")
	}

	payload := types.NewOrder{
		Order:         *order,
		Owner:         c.creds.Key,
		OrderType:     orderType,
		ClientOrderID: uuid.NewString(),
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "序列化订单载荷失败")
	}
	bodyStr := string(bodyBytes)

	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "POST",
		RequestPath: EndpointPostOrder,
		Body:        &bodyStr,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建 L2 认证头失败")
	}

	resp, err := c.httpClient.post(EndpointPostOrder, headers.Map(), bodyBytes, nil)
	if err != nil {
		return nil, errors.Wrap(err, "提交订单失败")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}

	var orderResp types.OrderResponse
	if err := parseResponse(resp, &orderResp); err != nil {
		return nil, errors.Wrap(err, "解析订单响应失败")
	}
	return &orderResp, nil
}

// PostOrderProxied 提交订单（proxied 路径）
// 网关不持有智能合约钱包的签名能力，由 Builder 服务对
// {method, path, body, timestamp} 协签，返回的头覆盖在 L2 头之上提交
func (c *Client) PostOrderProxied(ctx context.Context, builder BuilderSigner, order *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if builder == nil {
		return nil, errors.New("proxied 路径需要 Builder 签名服务")
	}

	if err := c.rateLimiter.Wait(ctx, "clob:order:post"); err != nil {
		return nil, errors.Wrap(err, "速率限制等待失败")
	}

	payload := types.NewOrder{
		Order:         *order,
		Owner:         c.creds.Key,
		OrderType:     orderType,
		ClientOrderID: uuid.NewString(),
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "序列化订单载荷失败")
	}
	bodyStr := string(bodyBytes)

	ts := time.Now().Unix()
	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "POST",
		RequestPath: EndpointPostOrder,
		Body:        &bodyStr,
	}, &ts)
	if err != nil {
		return nil, errors.Wrap(err, "创建 L2 认证头失败")
	}

	builderHeaders, err := builder.SignRequest(ctx, "POST", EndpointPostOrder, bodyBytes, ts)
	if err != nil {
		return nil, errors.Wrap(err, "Builder 协签失败")
	}

	headerMap := headers.Map()
	for k, v := range builderHeaders {
		headerMap[k] = v
	}

	resp, err := c.httpClient.post(EndpointPostOrder, headerMap, bodyBytes, nil)
	if err != nil {
		return nil, errors.Wrap(err, "提交订单失败")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}

	var orderResp types.OrderResponse
	if err := parseResponse(resp, &orderResp); err != nil {
		return nil, errors.Wrap(err, "解析订单响应失败")
	}
	return &orderResp, nil
}
