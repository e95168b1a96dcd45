package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter 速率限制器接口
type Limiter interface {
	Wait(ctx context.Context) error
	Allow() bool
}

// TokenBucket 令牌桶速率限制器
type TokenBucket struct {
	capacity   int // 桶容量
	tokens     int // 当前令牌数
	refillRate int // 每秒补充的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket 创建新的令牌桶
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// refill 补充令牌
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int(elapsed.Seconds()) * tb.refillRate
	if tokensToAdd > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
		tb.lastRefill = now
	}
}

// Allow 检查是否允许请求
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait 等待直到允许请求
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}

		waitTime := time.Second
		if tb.refillRate > 0 {
			waitTime = time.Second / time.Duration(tb.refillRate)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// Manager 速率限制管理器，按端点类别分配限流器
type Manager struct {
	limiters map[string]Limiter
	fallback Limiter
	mu       sync.RWMutex
}

// NewManager 创建新的速率限制管理器
func NewManager() *Manager {
	m := &Manager{
		limiters: make(map[string]Limiter),
		fallback: NewTokenBucket(500, 50),
	}

	// CLOB API 限制（按上游公布的额度）
	m.limiters["clob:order:post"] = NewTokenBucket(2400, 240)
	m.limiters["clob:order:delete"] = NewTokenBucket(2400, 240)
	m.limiters["clob:orders:delete"] = NewTokenBucket(800, 80)
	m.limiters["clob:orders:get"] = NewTokenBucket(150, 15)
	m.limiters["clob:trades:get"] = NewTokenBucket(150, 15)

	// Data API 限制
	m.limiters["data:general"] = NewTokenBucket(200, 20)

	return m
}

// Wait 等待直到指定端点允许请求
func (m *Manager) Wait(ctx context.Context, endpoint string) error {
	return m.limiter(endpoint).Wait(ctx)
}

// Allow 检查指定端点是否允许请求
func (m *Manager) Allow(endpoint string) bool {
	return m.limiter(endpoint).Allow()
}

func (m *Manager) limiter(endpoint string) Limiter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if l, exists := m.limiters[endpoint]; exists {
		return l
	}
	return m.fallback
}
