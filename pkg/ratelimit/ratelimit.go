package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter 速率限制器接口
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	GetRemaining() int
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

// GetRemaining 获取剩余令牌数
func (tb *TokenBucket) GetRemaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

// SlidingWindow 滑动窗口速率限制器
type SlidingWindow struct {
	limit      int
	windowSize time.Duration
	requests   []time.Time
	mu         sync.Mutex
}

// NewSlidingWindow 创建新的滑动窗口速率限制器
func NewSlidingWindow(limit int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:      limit,
		windowSize: windowSize,
		requests:   make([]time.Time, 0, limit),
	}
}

// Allow 检查是否允许请求
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.evict(time.Now())

	if len(sw.requests) >= sw.limit {
		return false
	}

	sw.requests = append(sw.requests, time.Now())
	return true
}

// evict 移除窗口外的请求时间戳
func (sw *SlidingWindow) evict(now time.Time) {
	cutoff := now.Add(-sw.windowSize)
	keep := sw.requests[:0]
	for _, req := range sw.requests {
		if req.After(cutoff) {
			keep = append(keep, req)
		}
	}
	sw.requests = keep
}

// Wait 等待直到允许请求
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}

		sw.mu.Lock()
		waitTime := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			if until := sw.windowSize - time.Since(sw.requests[0]); until > waitTime {
				waitTime = until
			}
		}
		sw.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// GetRemaining 获取剩余请求数
func (sw *SlidingWindow) GetRemaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.evict(time.Now())
	return max(0, sw.limit-len(sw.requests))
}

// RateLimitManager 按端点分组的速率限制管理器
type RateLimitManager struct {
	limiters map[string]RateLimiter
	fallback RateLimiter
	mu       sync.RWMutex
}

// NewRateLimitManager 创建新的速率限制管理器，预置 CLOB API 的官方限额
func NewRateLimitManager() *RateLimitManager {
	m := &RateLimitManager{
		limiters: make(map[string]RateLimiter),
		fallback: NewSlidingWindow(5000, 10*time.Second),
	}

	// CLOB API 限制
	m.limiters["clob:order:post"] = NewTokenBucket(2400, 240) // 2400/10s
	m.limiters["clob:order:delete"] = NewTokenBucket(2400, 240)
	m.limiters["clob:orders:get"] = NewSlidingWindow(150, 10*time.Second)
	m.limiters["clob:book:get"] = NewSlidingWindow(200, 10*time.Second)
	m.limiters["clob:price:get"] = NewSlidingWindow(200, 10*time.Second)

	// Data API 限制
	m.limiters["data:general"] = NewSlidingWindow(200, 10*time.Second)

	return m
}

// GetLimiter 获取指定端点的速率限制器（未注册的端点用通用限制器）
func (m *RateLimitManager) GetLimiter(endpoint string) RateLimiter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limiter, ok := m.limiters[endpoint]; ok {
		return limiter
	}
	return m.fallback
}

// Wait 等待直到允许请求
func (m *RateLimitManager) Wait(ctx context.Context, endpoint string) error {
	return m.GetLimiter(endpoint).Wait(ctx)
}

// Allow 检查是否允许请求
func (m *RateLimitManager) Allow(endpoint string) bool {
	return m.GetLimiter(endpoint).Allow()
}
