// Package whalefeed 批量聚合管道：分页拉取公共订单活动流，
// 按金额阈值筛出大额交易，以内容哈希为唯一键幂等入库。
// 独立于请求链路运行（定时或手动触发），不属于任何单次网关调用。
package whalefeed

import (
	"context"
	"time"

	"github.com/betbot/relaygate/clob/dataapi"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/internal/whalestore"
	"github.com/betbot/relaygate/pkg/logger"
)

// Platform 入库时标记的来源平台
const Platform = "polymarket"

// ActivitySource 活动流数据源
type ActivitySource interface {
	GetActivityPage(ctx context.Context, offset, limit int) (*dataapi.ActivityPage, error)
}

// Pipeline 聚合管道
type Pipeline struct {
	source ActivitySource
	store  *whalestore.Store

	thresholdUSD float64
	pageSize     int
	// maxPages 分页硬上限：即使上游永远不给 "没有更多页" 的信号也能终止
	maxPages int
	// ordered 该部署的分页是否按时间降序；只影响提前停页的优化，
	// cutoff 过滤不依赖它
	ordered bool
}

// NewPipeline 创建聚合管道
func NewPipeline(source ActivitySource, store *whalestore.Store, thresholdUSD float64, pageSize, maxPages int, ordered bool) *Pipeline {
	if pageSize <= 0 {
		pageSize = 500
	}
	if maxPages <= 0 {
		maxPages = 20
	}
	return &Pipeline{
		source:       source,
		store:        store,
		thresholdUSD: thresholdUSD,
		pageSize:     pageSize,
		maxPages:     maxPages,
		ordered:      ordered,
	}
}

// RunResult 单次运行结果
type RunResult struct {
	PagesFetched int `json:"pagesFetched"`
	Scanned      int `json:"scanned"`
	Qualified    int `json:"qualified"`
	Inserted     int `json:"inserted"`
	Skipped      int `json:"skipped"`
}

// Run 执行一次聚合
// 分页严格串行：是否取下一页取决于上一页是否满额。
// cutoff 之前的记录一律过滤；页面按时间有序时提前停页只是优化
func (p *Pipeline) Run(ctx context.Context, cutoff time.Time) (*RunResult, error) {
	result := &RunResult{}

	for page := 0; page < p.maxPages; page++ {
		pageData, err := p.source.GetActivityPage(ctx, page*p.pageSize, p.pageSize)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			// 后续页失败：保留已入库结果，报告后结束本轮
			logger.Warnf("[whalefeed] 第 %d 页拉取失败，提前结束本轮: %v", page, err)
			return result, nil
		}
		result.PagesFetched++

		stop := p.processPage(ctx, pageData.Items, cutoff, result)
		if stop || !pageData.Full {
			break
		}
	}

	logger.Infof("[whalefeed] 本轮完成: pages=%d scanned=%d qualified=%d inserted=%d skipped=%d",
		result.PagesFetched, result.Scanned, result.Qualified, result.Inserted, result.Skipped)
	return result, nil
}

// processPage 处理一页，返回是否可以提前停页
func (p *Pipeline) processPage(ctx context.Context, items []types.ActivityItem, cutoff time.Time, result *RunResult) bool {
	stopEarly := false
	for _, item := range items {
		result.Scanned++

		ts := time.Unix(item.Timestamp, 0).UTC()
		if !cutoff.IsZero() && ts.Before(cutoff) {
			if p.ordered {
				// 有序部署下，后面的记录只会更旧
				stopEarly = true
			}
			continue
		}

		amount := item.Size * item.Price
		if amount < p.thresholdUSD {
			continue
		}
		result.Qualified++

		side, err := types.ParseSide(item.Side)
		if err != nil {
			logger.Debugf("[whalefeed] 跳过无法归一化方向的记录: %v", err)
			result.Skipped++
			continue
		}

		trade := whalestore.WhaleTrade{
			MarketQuestion: item.Title,
			Side:           string(side),
			Outcome:        item.Outcome,
			Size:           item.Size,
			Price:          item.Price,
			Amount:         amount,
			Platform:       Platform,
			Wallet:         RedactWallet(item.ProxyWallet),
			Timestamp:      ts,
			TradeHash:      TradeHash(Platform, item.Title, string(side), amount, item.Price, item.Timestamp),
		}

		// 单条写入失败只记日志并跳过，不中断整轮
		inserted, err := p.store.Upsert(ctx, trade)
		if err != nil {
			logger.Warnf("[whalefeed] 入库失败，跳过该条: %v", err)
			result.Skipped++
			continue
		}
		if inserted {
			result.Inserted++
		}
	}
	return stopEarly
}
