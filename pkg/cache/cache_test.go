package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock 测试用假时钟
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestTTLCache_ExpiryWithFakeClock(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c := New[string, int](time.Minute, 10, WithClock[string, int](clk.Now))

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	clk.Advance(59 * time.Second)
	_, ok = c.Get("a")
	require.True(t, ok, "尚未过期")

	clk.Advance(2 * time.Second)
	_, ok = c.Get("a")
	require.False(t, ok, "过期后必须失效")
	require.Equal(t, 0, c.Size(), "过期项应被删除")
}

func TestTTLCache_BoundedEviction(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c := New[string, int](time.Minute, 3, WithClock[string, int](clk.Now))

	// 三项 TTL 递增，容量占满
	c.Set("a", 1, 1*time.Minute)
	c.Set("b", 2, 2*time.Minute)
	c.Set("c", 3, 3*time.Minute)
	require.Equal(t, 3, c.Size())

	// 第四项插入时淘汰最早过期的 a
	c.Set("d", 4, 4*time.Minute)
	require.Equal(t, 3, c.Size())
	_, ok := c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("d")
	require.True(t, ok)
}

func TestTTLCache_EvictPrefersExpired(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c := New[string, int](time.Minute, 2, WithClock[string, int](clk.Now))

	c.Set("stale", 1, 1*time.Second)
	c.Set("live", 2, 10*time.Minute)
	clk.Advance(5 * time.Second)

	c.Set("new", 3, time.Minute)
	_, ok := c.Get("live")
	require.True(t, ok, "未过期项不应被误伤")
	_, ok = c.Get("stale")
	require.False(t, ok)
}

func TestTTLCache_OverwriteSameKey(t *testing.T) {
	c := New[string, string](time.Minute, 2)
	for i := 0; i < 10; i++ {
		c.Set("k", fmt.Sprintf("v%d", i), time.Minute)
	}
	require.Equal(t, 1, c.Size(), "同 key 覆盖不应增长")
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v9", v)
}
