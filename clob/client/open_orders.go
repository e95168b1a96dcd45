package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/signing"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/pkg/logger"
)

// endpointStrategy 一种端点形态：路径 + 该路径的签名约定
// 形态不匹配（401/404/405）不是瞬时故障，按声明顺序换下一个形态，
// 最多一次回退，不做指数退避
type endpointStrategy struct {
	path string
}

// openOrderStrategies 开放订单端点形态，按优先级排列
var openOrderStrategies = []endpointStrategy{
	{path: EndpointGetOpenOrders},
	{path: EndpointGetOpenOrdersAlt},
}

// GetOpenOrders 获取开放订单
// 每次尝试都重新签名：时间戳参与签名，上次尝试的头不可复用
func (c *Client) GetOpenOrders(ctx context.Context, market string) ([]types.OpenOrder, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:orders:get"); err != nil {
		return nil, errors.Wrap(err, "速率限制等待失败")
	}

	params := map[string]string{}
	if market != "" {
		params["market"] = market
	}

	var lastErr error
	for _, strategy := range openOrderStrategies {
		orders, err := c.fetchOpenOrders(ctx, strategy, params)
		if err == nil {
			return orders, nil
		}

		var mismatch *types.ShapeMismatch
		if errors.As(err, &mismatch) {
			logger.Debugf("[orders] 端点 %s 形态不匹配 (HTTP %d)，尝试备用路径", mismatch.Path, mismatch.StatusCode)
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (c *Client) fetchOpenOrders(ctx context.Context, strategy endpointStrategy, params map[string]string) ([]types.OpenOrder, error) {
	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "GET",
		RequestPath: strategy.path,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建 L2 认证头失败")
	}

	resp, err := c.httpClient.get(strategy.path, headers.Map(), params)
	if err != nil {
		return nil, errors.Wrap(err, "获取开放订单失败")
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusMethodNotAllowed:
		resp.Body.Close()
		return nil, &types.ShapeMismatch{Path: strategy.path, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}

	var apiResp types.OpenOrdersAPIResponse
	if err := parseResponse(resp, &apiResp); err != nil {
		return nil, err
	}
	return apiResp.Data, nil
}
