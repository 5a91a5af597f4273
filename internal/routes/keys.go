package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/keyward/keyward/internal/vault"
)

// RegisterKeyRoutes wires the custody protocol endpoints. Challenge
// resolution is the only guessable surface, so it alone sits behind the
// rate limiter.
func RegisterKeyRoutes(r fiber.Router, h *vault.Handler, rateLimiter fiber.Handler) {
	r.Post("/keys", h.IssueKey)
	r.Get("/keys/:keyId", h.RequestReadChallenge)
	r.Put("/keys/:keyId", rateLimiter, h.ResolveChallenge)
	r.Delete("/keys/:keyId", h.RequestRemoveChallenge)
}
