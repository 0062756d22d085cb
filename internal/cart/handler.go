package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

// Handler exposes the cart endpoints. Carts work for both logged-in
// users and anonymous sessions; guests carry an opaque session_id the
// backend mints on first contact.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:id<[0-9]+>", h.updateItem)
	app.Delete("/api/v1/cart/items/:id<[0-9]+>", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/cart/migrate", h.migrate)
}

type itemRequest struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SessionID string `json:"session_id,omitempty"`
}

// resolveOwner prefers the authenticated user and falls back to the
// supplied session id.
func resolveOwner(c *fiber.Ctx, sessionID string) (Owner, bool) {
	if userID := auth.OptionalUserID(c); userID > 0 {
		return ForUser(userID), true
	}
	if sessionID == "" {
		sessionID = c.Query("session_id")
	}
	if sessionID != "" {
		return ForSession(sessionID), true
	}
	return Owner{}, false
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	owner, ok := resolveOwner(c, "")
	if !ok {
		// first contact from a guest: mint a session and hand back an
		// empty cart they can start filling
		owner = ForSession(uuid.NewString())
	}
	cart, err := h.service.Get(owner)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"cart": cart}})
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product_id"})
	}
	if payload.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "quantity must be positive"})
	}
	owner, ok := resolveOwner(c, payload.SessionID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id required for guest carts"})
	}

	cart, err := h.service.Add(owner, payload.ProductID, payload.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"cart": cart}})
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	lineID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid line id"})
	}
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "quantity must not be negative"})
	}
	owner, ok := resolveOwner(c, payload.SessionID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id required for guest carts"})
	}

	cart, err := h.service.Update(owner, lineID, payload.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"cart": cart}})
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	lineID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid line id"})
	}
	owner, ok := resolveOwner(c, "")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id required for guest carts"})
	}

	cart, err := h.service.Remove(owner, lineID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"cart": cart}})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	owner, ok := resolveOwner(c, "")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id required for guest carts"})
	}
	if err := h.service.Clear(owner); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type migrateRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) migrate(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(migrateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id is required"})
	}

	if err := h.service.Migrate(payload.SessionID, userID); err != nil {
		return respondError(c, err)
	}
	cart, err := h.service.Get(ForUser(userID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "cart migrated", "data": fiber.Map{"cart": cart}})
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrLineNotFound), errors.Is(err, product.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, product.ErrUnavailable), errors.Is(err, product.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
