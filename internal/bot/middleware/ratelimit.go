package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown: кулдаун команд по ключу (ID чата).
// Для каждого ключа: token bucket на один токен, который восстанавливается
// за period. Allow не блокирует: либо можно сейчас, либо отказ.
type Cooldown struct {
	mu       sync.Mutex
	limiters map[int64]*visitor
	period   time.Duration
	ttl      time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewCooldown(period time.Duration) *Cooldown {
	c := &Cooldown{
		limiters: make(map[int64]*visitor),
		period:   period,
		ttl:      period + 10*time.Minute,
		stopCh:   make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Close останавливает фоновую горутину очистки.
// Его надо вызывать на shutdown (иначе cleanup будет жить вечно).
func (c *Cooldown) Close() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *Cooldown) Allow(key int64) bool {
	if c.period <= 0 {
		return true
	}
	now := time.Now()

	c.mu.Lock()
	v, ok := c.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(c.period), 1)}
		c.limiters[key] = v
	}
	v.lastSeen = now
	c.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (c *Cooldown) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evictIdle(time.Now())
		}
	}
}

// evictIdle удаляет ключи, к которым не обращались дольше ttl.
// К этому моменту их bucket всё равно полон, так что поведение не меняется.
func (c *Cooldown) evictIdle(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, v := range c.limiters {
		if now.Sub(v.lastSeen) >= c.ttl {
			delete(c.limiters, key)
		}
	}
}
