package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"album-server/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// client.lastSeen holds unix nanos and is written on the lock-free fast
// path, so it must be atomic.
type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now().UnixNano())
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check under the lock.
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now().UnixNano())
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.lastSeen.Store(time.Now().UnixNano())
	i.ips.Store(ip, c)

	return c.limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(time.Unix(0, client.lastSeen.Load())) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitMiddleware limits requests per client IP. When redis is
// available a fixed one-second window shared across instances is used;
// otherwise each instance falls back to an in-process token bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()

			window := strconv.FormatInt(time.Now().Unix(), 10)
			key := service.RedisKey("rate", ip, window)
			count, err := redisClient.Incr(ctx, key).Result()
			if err == nil {
				_ = redisClient.Expire(ctx, key, 2*time.Second).Err()
				if count > int64(rps)+int64(burst) {
					c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
					c.Abort()
					return
				}
				c.Next()
				return
			}
			// Redis hiccup: fall through to the local bucket.
		}

		if !limiter.getLimiter(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
