package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	rd "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
)

// Sliding-window rate limit in a single Lua call so the trim, count and
// insert are atomic across instances.
// KEYS[1]=limit key, ARGV: now, window start, window seconds, member, limit.
// Returns the count inside the window, or -1 when the limit is hit.
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

// RedisRateLimit throttles checkout per user, falling back to the
// client IP for guests. Redis being down fails open.
func RedisRateLimit(rdb *rd.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var key string
		if userID := auth.OptionalUserID(c); userID > 0 {
			key = fmt.Sprintf("rate_limit:checkout:user:%d", userID)
		} else {
			key = fmt.Sprintf("rate_limit:checkout:ip:%s", c.IP())
		}

		now := time.Now().Unix()
		windowSec := int64(window.Seconds())
		windowStart := now - windowSec
		member := fmt.Sprintf("%d-%d", now, time.Now().UnixNano())

		res, err := rdb.Eval(c.Context(), luaRateLimit, []string{key},
			now, windowStart, windowSec, member, limit).Int()
		if err != nil {
			logrus.WithError(err).Warn("rate limit check failed, letting request through")
			return c.Next()
		}
		if res < 0 {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "too many requests, try again shortly",
			})
		}
		return c.Next()
	}
}
