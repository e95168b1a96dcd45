package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/signing"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/pkg/logger"
)

// CancelOrders 撤销一个或多个订单
// 签名约定按部署配置二选一，绝不探测：对不带 body 的端点签入 body
//（或反过来）得到的永远是无效签名
func (c *Client) CancelOrders(ctx context.Context, orderIDs []string) (*types.CancelResult, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, &types.ValidationError{Field: "orderIds", Reason: "不能为空"}
	}

	switch c.cancelConvention {
	case types.CancelBulkBody:
		return c.cancelBulk(ctx, orderIDs)
	default:
		return c.cancelPerID(ctx, orderIDs)
	}
}

// cancelPerID 逐单 DELETE，无请求体，签名只覆盖路径
// 每个 id 独立签名（各自携带当前时间戳），并发执行；
// 单个失败不中断其余请求，成功与失败并列返回
func (c *Client) cancelPerID(ctx context.Context, orderIDs []string) (*types.CancelResult, error) {
	type outcome struct {
		idx int
		id  string
		err error
	}

	outcomes := make([]outcome, len(orderIDs))
	var wg sync.WaitGroup
	for i, id := range orderIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcomes[i] = outcome{idx: i, id: id, err: c.cancelOne(ctx, id)}
		}(i, id)
	}
	wg.Wait()

	result := &types.CancelResult{}
	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, o.id+": "+o.err.Error())
			continue
		}
		result.Cancelled = append(result.Cancelled, o.id)
	}
	sort.Strings(result.Cancelled)

	if result.AllFailed() {
		logger.Warnf("[cancel] 全部撤单失败: %v", result.Errors)
	}
	return result, nil
}

// cancelOne 单笔撤单（path-only 约定）
func (c *Client) cancelOne(ctx context.Context, orderID string) error {
	if err := c.rateLimiter.Wait(ctx, "clob:order:delete"); err != nil {
		return errors.Wrap(err, "速率限制等待失败")
	}

	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "DELETE",
		RequestPath: EndpointCancelOrder,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "创建 L2 认证头失败")
	}

	resp, err := c.httpClient.delete(EndpointCancelOrder, headers.Map(), map[string]string{"orderID": orderID}, nil)
	if err != nil {
		return errors.Wrap(err, "取消订单失败")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}
	resp.Body.Close()
	return nil
}

// cancelBulk 批量 DELETE，JSON body 携带全部 id，签名覆盖 path+body
func (c *Client) cancelBulk(ctx context.Context, orderIDs []string) (*types.CancelResult, error) {
	if err := c.rateLimiter.Wait(ctx, "clob:orders:delete"); err != nil {
		return nil, errors.Wrap(err, "速率限制等待失败")
	}

	bodyBytes, err := json.Marshal(types.CancelBody{OrderIDs: orderIDs})
	if err != nil {
		return nil, errors.Wrap(err, "序列化撤单请求体失败")
	}
	bodyStr := string(bodyBytes)

	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "DELETE",
		RequestPath: EndpointCancelOrders,
		Body:        &bodyStr,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建 L2 认证头失败")
	}

	resp, err := c.httpClient.delete(EndpointCancelOrders, headers.Map(), nil, bodyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "批量撤单失败")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}

	// 上游批量端点返回成功与未撤销两个列表
	var bulkResp struct {
		Canceled    []string          `json:"canceled"`
		NotCanceled map[string]string `json:"not_canceled"`
	}
	if err := parseResponse(resp, &bulkResp); err != nil {
		return nil, errors.Wrap(err, "解析批量撤单响应失败")
	}

	result := &types.CancelResult{Cancelled: bulkResp.Canceled}
	for id, reason := range bulkResp.NotCanceled {
		result.Errors = append(result.Errors, id+": "+reason)
	}
	sort.Strings(result.Errors)
	return result, nil
}
