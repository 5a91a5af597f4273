package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimitApp(t *testing.T, maxPerMin int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Put("/resolve", ChallengeRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, cleanup
}

func attempt(t *testing.T, app *fiber.App, phone string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPut, "/resolve", strings.NewReader(`{"phone":"`+phone+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	payload := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp.StatusCode, payload
}

func TestChallengeRateLimitAllowsUnderCap(t *testing.T) {
	app, cleanup := setupRateLimitApp(t, 3)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if status, _ := attempt(t, app, "+15551234567"); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, status)
		}
	}
}

func TestChallengeRateLimitBlocksWithDelay(t *testing.T) {
	app, cleanup := setupRateLimitApp(t, 2)
	defer cleanup()

	attempt(t, app, "+15551234567")
	attempt(t, app, "+15551234567")

	status, body := attempt(t, app, "+15551234567")
	if status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	delay, ok := body["delay"].(float64)
	if !ok || delay <= 0 || delay > 60 {
		t.Fatalf("expected a delay within the window, got %v", body["delay"])
	}
}

func TestChallengeRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Put("/resolve", ChallengeRateLimit(cache, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// With Redis unreachable the limiter must let every attempt through,
	// even past the cap.
	mr.Close()
	for i := 0; i < 3; i++ {
		if status, _ := attempt(t, app, "+15551234567"); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected fail-open 200, got %d", i+1, status)
		}
	}
}

func TestChallengeRateLimitNoopWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Put("/resolve", ChallengeRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		if status, _ := attempt(t, app, "+15551234567"); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, status)
		}
	}
}

func TestChallengeRateLimitIsPerPhone(t *testing.T) {
	app, cleanup := setupRateLimitApp(t, 1)
	defer cleanup()

	attempt(t, app, "+15551234567")
	if status, _ := attempt(t, app, "+15557654321"); status != fiber.StatusOK {
		t.Fatalf("expected other phone to pass, got %d", status)
	}
}
