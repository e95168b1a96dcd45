package cache

import (
	"sync"
	"time"
)

// Cache 通用缓存接口
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
	Clear()
	Size() int
}

// cacheItem 缓存项
type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache 有界内存缓存
// 不是包级单例：由调用方创建并显式传入处理器。
// now 可注入，测试用假时钟确定性地触发过期
type TTLCache[K comparable, V any] struct {
	items      map[K]*cacheItem[V]
	mu         sync.RWMutex
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
}

// Option TTLCache 可选配置
type Option[K comparable, V any] func(*TTLCache[K, V])

// WithClock 注入时钟（测试用）
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		c.now = now
	}
}

// New 创建有界 TTL 缓存
// maxEntries <= 0 表示默认上限 4096
func New[K comparable, V any](defaultTTL time.Duration, maxEntries int, opts ...Option[K, V]) *TTLCache[K, V] {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	c := &TTLCache[K, V]{
		items:      make(map[K]*cacheItem[V]),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get 获取缓存值，过期项当场删除
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set 设置缓存值
// 超出上限时先清一轮过期项，仍然超限则淘汰最早过期的一项
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		c.evictLocked()
	}

	c.items[key] = &cacheItem[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// evictLocked 先删过期项，仍满则淘汰最早过期的一项
func (c *TTLCache[K, V]) evictLocked() {
	now := c.now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
	if len(c.items) < c.maxEntries {
		return
	}

	var oldestKey K
	var oldestAt time.Time
	first := true
	for key, item := range c.items {
		if first || item.expiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = item.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}

// Delete 删除缓存项
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear 清空缓存
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*cacheItem[V])
}

// Size 获取缓存大小
func (c *TTLCache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
