package warehouse

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

// Handler exposes the fulfillment operations: hold stock for an order
// being picked, release a hold, or confirm it as shipped.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s, validate: validator.New()}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/products/:id<[0-9]+>/warehouses", h.list)
	app.Post("/api/v1/warehouses/reserve", h.reserve)
	app.Post("/api/v1/warehouses/release", h.release)
	app.Post("/api/v1/warehouses/confirm", h.confirm)
}

func (h *Handler) list(c *fiber.Ctx) error {
	if _, err := auth.UserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	stocks, err := h.service.ListByProduct(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"warehouses": stocks}})
}

type moveRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) reserve(c *fiber.Ctx) error {
	return h.move(c, h.service.Reserve, "stock reserved")
}

func (h *Handler) release(c *fiber.Ctx) error {
	return h.move(c, h.service.Release, "reservation released")
}

func (h *Handler) confirm(c *fiber.Ctx) error {
	return h.move(c, h.service.Confirm, "reservation confirmed")
}

func (h *Handler) move(c *fiber.Ctx, op func(productID, qty int) error, message string) error {
	if _, err := auth.UserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(moveRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": "validation failed"})
	}

	if err := op(payload.ProductID, payload.Quantity); err != nil {
		switch {
		case errors.Is(err, product.ErrInsufficientStock), errors.Is(err, ErrReservationTooLarge):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}
