package vault

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/keyward/keyward/internal/crypto"
	"github.com/keyward/keyward/internal/keystore"
	"github.com/keyward/keyward/internal/registry"
	"github.com/keyward/keyward/internal/validate"
)

// Handler exposes the custody protocol over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the vault HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type issueRequest struct {
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

type resolveRequest struct {
	Phone  string `json:"phone"`
	Code   string `json:"code"`
	Op     string `json:"op"`
	PIN    string `json:"pin"`
	NewPIN string `json:"new_pin"`
}

type keyResponse struct {
	ID            string `json:"id"`
	EncryptionKey string `json:"encryption_key,omitempty"`
}

// IssueKey handles POST /keys.
func (h *Handler) IssueKey(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if !validate.Phone(req.Phone) || (req.PIN != "" && !validate.PIN(req.PIN)) {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}

	id, err := h.service.IssueKey(c.UserContext(), req.Phone, req.PIN)
	if err != nil {
		return h.fail(c, "issue key", err)
	}
	return c.Status(http.StatusCreated).JSON(keyResponse{ID: id})
}

// RequestReadChallenge handles GET /keys/:keyId.
func (h *Handler) RequestReadChallenge(c *fiber.Ctx) error {
	return h.requestChallenge(c, validate.OpRead)
}

// RequestRemoveChallenge handles DELETE /keys/:keyId.
func (h *Handler) RequestRemoveChallenge(c *fiber.Ctx) error {
	return h.requestChallenge(c, validate.OpRemove)
}

func (h *Handler) requestChallenge(c *fiber.Ctx, op string) error {
	keyID := c.Params("keyId")
	phone := c.Query("phone")
	if !validate.ID(keyID) || !validate.Phone(phone) {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}

	if err := h.service.RequestChallenge(c.UserContext(), phone, keyID, op); err != nil {
		return h.fail(c, "request challenge", err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Success"})
}

// ResolveChallenge handles PUT /keys/:keyId.
func (h *Handler) ResolveChallenge(c *fiber.Ctx) error {
	keyID := c.Params("keyId")
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}
	if !validate.ID(keyID) ||
		!validate.Phone(req.Phone) ||
		!validate.Code(req.Code) ||
		!validate.Op(req.Op) ||
		(req.PIN != "" && !validate.PIN(req.PIN)) ||
		(req.NewPIN != "" && !validate.PIN(req.NewPIN)) {
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	}

	record, err := h.service.ResolveChallenge(c.UserContext(), req.Phone, keyID, req.Code, req.Op)
	if err != nil {
		return h.fail(c, "resolve challenge", err)
	}
	if req.Op == validate.OpRemove {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Success"})
	}
	return c.Status(http.StatusOK).JSON(keyResponse{ID: record.ID, EncryptionKey: record.EncryptionKey})
}

// fail maps service errors onto the boundary contract. Everything in the
// not-found class stays a single neutral outcome.
func (h *Handler) fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, crypto.ErrInvalidArgument):
		return fiber.NewError(http.StatusBadRequest, "Invalid request")
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, keystore.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Invalid params")
	default:
		if h.logger != nil {
			h.logger.Error(action, "error", err, "path", c.Path())
		}
		return fiber.NewError(http.StatusInternalServerError, "Internal error")
	}
}
