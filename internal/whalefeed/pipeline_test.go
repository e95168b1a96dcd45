package whalefeed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/betbot/relaygate/clob/dataapi"
	"github.com/betbot/relaygate/clob/types"
	"github.com/betbot/relaygate/internal/whalestore"
)

// fakeSource 内存活动流，按 offset/limit 切片
type fakeSource struct {
	items []types.ActivityItem
	calls int
}

func (f *fakeSource) GetActivityPage(_ context.Context, offset, limit int) (*dataapi.ActivityPage, error) {
	f.calls++
	if offset >= len(f.items) {
		return &dataapi.ActivityPage{}, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	page := f.items[offset:end]
	return &dataapi.ActivityPage{Items: page, Full: len(page) >= limit}, nil
}

func openTestStore(t *testing.T) *whalestore.Store {
	t.Helper()
	s, err := whalestore.Open(filepath.Join(t.TempDir(), "whales.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func activityItem(title, wallet, side string, size, price float64, ts int64) types.ActivityItem {
	return types.ActivityItem{
		Title:       title,
		ProxyWallet: wallet,
		Side:        side,
		Outcome:     "Yes",
		Size:        size,
		Price:       price,
		Timestamp:   ts,
	}
}

// 对重叠时间窗口重跑两次，行数必须不变
func TestPipeline_IdempotentRerun(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeSource{items: []types.ActivityItem{
		activityItem("Will X happen?", "0x1111111111111111", "BUY", 50000, 0.40, now),
		activityItem("Will Y happen?", "0x2222222222222222", "SELL", 80000, 0.25, now-60),
		activityItem("small trade", "0x3333333333333333", "BUY", 10, 0.50, now-120),
	}}
	store := openTestStore(t)
	p := NewPipeline(source, store, 10000, 100, 5, true)

	res1, err := p.Run(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, res1.Inserted, "两条达标，一条低于阈值")

	count1, err := store.Count(context.Background())
	require.NoError(t, err)

	// 第二轮窗口与第一轮重叠，上游数据相同
	res2, err := p.Run(context.Background(), time.Unix(now-3600, 0))
	require.NoError(t, err)
	require.Equal(t, 0, res2.Inserted, "重跑不应新增任何行")

	count2, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, count1, count2, "行数必须保持不变")
}

// 阈值按 amount = size × price 过滤
func TestPipeline_ThresholdFilter(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeSource{items: []types.ActivityItem{
		// 9999.99 < 10000，不达标
		activityItem("edge", "0xaaaa", "BUY", 99999.9, 0.1, now),
		// 恰好 10000，达标
		activityItem("exact", "0xbbbb", "BUY", 100000, 0.1, now),
	}}
	store := openTestStore(t)
	p := NewPipeline(source, store, 10000, 100, 5, true)

	res, err := p.Run(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Qualified)
	require.Equal(t, 1, res.Inserted)
}

// cutoff 之前的记录一律过滤；有序部署提前停页
func TestPipeline_CutoffAndEarlyStop(t *testing.T) {
	now := time.Now().Unix()
	// 两页数据，第二页全部早于 cutoff
	items := make([]types.ActivityItem, 0, 4)
	items = append(items,
		activityItem("fresh-1", "0x1", "BUY", 60000, 0.5, now),
		activityItem("fresh-2", "0x2", "BUY", 60000, 0.5, now-10),
		activityItem("stale-1", "0x3", "BUY", 60000, 0.5, now-7200),
		activityItem("stale-2", "0x4", "BUY", 60000, 0.5, now-7300),
	)
	source := &fakeSource{items: items}
	store := openTestStore(t)
	p := NewPipeline(source, store, 10000, 2, 10, true)

	cutoff := time.Unix(now-3600, 0)
	res, err := p.Run(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, 2, res.Inserted, "只有 cutoff 之后的记录入库")
	require.Equal(t, 2, res.PagesFetched, "第二页发现越过 cutoff 后停止")
	require.Equal(t, 2, source.calls)
}

// 无序部署不允许提前停页，但 cutoff 过滤仍然生效
func TestPipeline_UnorderedNeverEarlyStops(t *testing.T) {
	now := time.Now().Unix()
	source := &fakeSource{items: []types.ActivityItem{
		activityItem("stale", "0x1", "BUY", 60000, 0.5, now-7200),
		activityItem("fresh", "0x2", "BUY", 60000, 0.5, now),
	}}
	store := openTestStore(t)
	p := NewPipeline(source, store, 10000, 1, 10, false)

	res, err := p.Run(context.Background(), time.Unix(now-3600, 0))
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted, "stale 被过滤但不停页，fresh 正常入库")
}

// 分页硬上限保证终止
func TestPipeline_MaxPagesBound(t *testing.T) {
	// 每页都满额，上游永远有 "下一页"
	items := make([]types.ActivityItem, 100)
	now := time.Now().Unix()
	for i := range items {
		items[i] = activityItem("m", "0x1", "BUY", 60000, 0.5, now-int64(i))
	}
	source := &fakeSource{items: items}
	store := openTestStore(t)
	p := NewPipeline(source, store, 10000, 10, 3, true)

	res, err := p.Run(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 3, res.PagesFetched, "必须在 maxPages 处终止")
}

func TestTradeHash_StableAndSensitive(t *testing.T) {
	h1 := TradeHash(Platform, "market", "BUY", 12345.678, 0.456, 1700000000)
	h2 := TradeHash(Platform, "market", "BUY", 12345.678, 0.456, 1700000000)
	require.Equal(t, h1, h2, "同一内容必须得到同一哈希")

	// 两位小数内的尾差不改变哈希
	h3 := TradeHash(Platform, "market", "BUY", 12345.6801, 0.4599, 1700000000)
	require.Equal(t, h1, h3)

	// 超出舍入精度的变化必须改变哈希
	h4 := TradeHash(Platform, "market", "BUY", 12346.0, 0.456, 1700000000)
	require.NotEqual(t, h1, h4)
	h5 := TradeHash(Platform, "market", "SELL", 12345.678, 0.456, 1700000000)
	require.NotEqual(t, h1, h5)
}

func TestRedactWallet(t *testing.T) {
	require.Equal(t, "0x1234…cdef", RedactWallet("0x1234567890abcdef1234567890abcdef12cdef"))
	require.Equal(t, "0xshort", RedactWallet("0xshort"))
}
