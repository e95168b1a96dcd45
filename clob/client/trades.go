package client

import (
	"context"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/betbot/relaygate/clob/signing"
	"github.com/betbot/relaygate/clob/types"
)

// GetTrades 查询成交记录
// 查询参数只影响请求 URL，签名固定覆盖 pathOnly
func (c *Client) GetTrades(ctx context.Context, params types.TradeParams) ([]types.Trade, error) {
	if err := c.CanL2Auth(); err != nil {
		return nil, err
	}
	if err := c.rateLimiter.Wait(ctx, "clob:trades:get"); err != nil {
		return nil, errors.Wrap(err, "速率限制等待失败")
	}

	queryParams := map[string]string{}
	if params.Maker != "" {
		queryParams["maker_address"] = params.Maker
	}
	if params.Taker != "" {
		queryParams["taker"] = params.Taker
	}
	if params.After > 0 {
		queryParams["after"] = strconv.FormatInt(params.After, 10)
	}

	headers, err := signing.CreateL2Headers(c.address, c.creds, &types.L2HeaderArgs{
		Method:      "GET",
		RequestPath: EndpointGetTrades,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建 L2 认证头失败")
	}

	resp, err := c.httpClient.get(EndpointGetTrades, headers.Map(), queryParams)
	if err != nil {
		return nil, errors.Wrap(err, "获取成交记录失败")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.UpstreamRejected{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
	}

	var apiResp types.TradesAPIResponse
	if err := parseResponse(resp, &apiResp); err != nil {
		return nil, err
	}
	return apiResp.Data, nil
}

// GetUserTrades 获取用户全部成交
// 同一笔用户订单可能以 maker 或 taker 身份成交，而上游没有统一的
// "我的成交" 视图，因此按两个角色各查一次再按 id 去重。
// 两个查询相互独立，并发执行；一边失败另一边成功时降级返回成功侧
func (c *Client) GetUserTrades(ctx context.Context, after int64) ([]types.Trade, error) {
	type result struct {
		trades []types.Trade
		err    error
	}

	makerCh := make(chan result, 1)
	takerCh := make(chan result, 1)

	go func() {
		trades, err := c.GetTrades(ctx, types.TradeParams{Maker: c.address, After: after})
		makerCh <- result{trades, err}
	}()
	go func() {
		trades, err := c.GetTrades(ctx, types.TradeParams{Taker: c.address, After: after})
		takerCh <- result{trades, err}
	}()

	maker := <-makerCh
	taker := <-takerCh

	if maker.err != nil && taker.err != nil {
		return nil, errors.Wrapf(maker.err, "maker 与 taker 查询均失败 (taker: %v)", taker.err)
	}

	return MergeTrades(maker.trades, taker.trades), nil
}

// MergeTrades 合并 maker 侧与 taker 侧的成交
// 上游 id 规范且不可变，按 id 收敛到 map（后写覆盖无影响），
// 结果按 matchTime 降序
func MergeTrades(maker, taker []types.Trade) []types.Trade {
	byID := make(map[string]types.Trade, len(maker)+len(taker))
	for _, t := range maker {
		byID[t.ID] = t
	}
	for _, t := range taker {
		byID[t.ID] = t
	}

	merged := make([]types.Trade, 0, len(byID))
	for _, t := range byID {
		merged = append(merged, t)
	}
	sort.Slice(merged, func(i, j int) bool {
		ti, _ := strconv.ParseInt(merged[i].MatchTime, 10, 64)
		tj, _ := strconv.ParseInt(merged[j].MatchTime, 10, 64)
		if ti != tj {
			return ti > tj
		}
		return merged[i].ID > merged[j].ID
	})
	return merged
}
