// Package dataapi 封装公共 data-api 端点（无需认证）。
// 持仓与批量订单活动流都来自这里，与 L2 认证链路完全独立：
// 没有绑定凭证的地址也能查询持仓。
package dataapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/types"
)

const (
	// EndpointPositions 公共持仓端点
	EndpointPositions = "/positions"
	// EndpointTrades 批量订单活动流（offset/limit 分页）
	EndpointTrades = "/trades"
)

// Client data-api 客户端
type Client struct {
	client *resty.Client
}

// NewClient 创建 data-api 客户端
func NewClient(host string) *Client {
	host = strings.TrimSuffix(host, "/")

	// resty 会自动从环境变量读取代理配置
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("Accept", "*/*").
		SetHeader("User-Agent", "relaygate-dataapi")

	return &Client{client: client}
}

// GetPositions 获取某地址的持仓
func (c *Client) GetPositions(ctx context.Context, user string) ([]types.Position, error) {
	var positions []types.Position
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("user", strings.ToLower(user)).
		SetResult(&positions).
		Get(EndpointPositions)
	if err != nil {
		return nil, errors.Wrap(err, "获取持仓失败")
	}
	if resp.IsError() {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}
	return positions, nil
}

// ActivityPage 一页活动记录
type ActivityPage struct {
	Items []types.ActivityItem
	// Full 本页是否满额，用于判断是否还有后续页
	Full bool
}

// GetActivityPage 按 offset/limit 获取一页订单活动
func (c *Client) GetActivityPage(ctx context.Context, offset, limit int) (*ActivityPage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit 必须大于 0: %d", limit)
	}

	var items []types.ActivityItem
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":        strconv.Itoa(offset),
			"limit":         strconv.Itoa(limit),
			"takerOnly":     "true",
			"filterType":    "CASH",
			"sortBy":        "TIMESTAMP",
			"sortDirection": "DESC",
		}).
		SetResult(&items).
		Get(EndpointTrades)
	if err != nil {
		return nil, errors.Wrap(err, "获取活动页失败")
	}
	if resp.IsError() {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}

	return &ActivityPage{Items: items, Full: len(items) >= limit}, nil
}
