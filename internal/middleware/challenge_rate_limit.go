package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ChallengeRateLimit caps challenge-resolution attempts per phone using
// Redis. Above the cap it answers 429 with the remaining window in seconds
// as the retry delay. Fail-open when Redis is unavailable.
func ChallengeRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Phone string `json:"phone"`
		}
		_ = c.BodyParser(&req)
		phone := strings.TrimSpace(req.Phone)
		if phone == "" {
			phone = c.IP()
		}
		key := "rl:resolve:" + phone
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			delay := int64(time.Minute / time.Second)
			if ttl, err := cache.TTL(c.UserContext(), key).Result(); err == nil && ttl > 0 {
				delay = int64(ttl / time.Second)
			}
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Rate limit until",
				"delay":   delay,
			})
		}
		return c.Next()
	}
}
