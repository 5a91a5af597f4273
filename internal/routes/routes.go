package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/keystore"
	"github.com/keyward/keyward/internal/middleware"
	"github.com/keyward/keyward/internal/notification"
	"github.com/keyward/keyward/internal/registry"
	"github.com/keyward/keyward/internal/vault"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// The deployment-wide hashing salt is resolved once before any request
	// is served; every identity lookup keys off it.
	var salt string
	if d.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		loaded, err := registry.LoadSalt(ctx, d.DB)
		if err != nil {
			return fmt.Errorf("load salt: %w", err)
		}
		salt = loaded
	} else {
		generated, err := devSalt()
		if err != nil {
			return err
		}
		salt = generated
	}

	var keyRepo keystore.Repository
	var identityRepo registry.Repository
	if d.DB != nil {
		keyRepo = keystore.NewPostgresRepository(d.DB)
		identityRepo = registry.NewPostgresRepository(d.DB)
	} else {
		keyRepo = keystore.NewMemoryRepository()
		identityRepo = registry.NewMemoryRepository()
	}

	var notifier notification.Notifier
	if d.Cfg.TwilioAccountSID != "" {
		notifier = notification.NewTwilioNotifier(d.Cfg.TwilioAccountSID, d.Cfg.TwilioAuthToken, d.Cfg.TwilioFrom)
	} else {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	vaultSvc := vault.NewService(
		registry.NewService(identityRepo, salt),
		keystore.NewService(keyRepo),
		notifier,
	)
	vaultHandler := vault.NewHandler(vaultSvc, d.Logger)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.ChallengeRateLimit(d.Cache, d.Cfg.ChallengeRateLimit)
	RegisterKeyRoutes(api, vaultHandler, rateLimiter)

	return nil
}

// devSalt generates a throwaway salt for database-less development runs.
// Identity records do not survive restarts without a database anyway.
func devSalt() (string, error) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return "", fmt.Errorf("generate dev salt: %w", err)
	}
	return salt, nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
