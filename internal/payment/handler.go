package payment

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
)

// OrderAccess answers ownership questions without importing the order
// package (which already imports this one for the Payment model).
type OrderAccess interface {
	OwnedBy(orderID int, userID int) (bool, error)
}

type Handler struct {
	service  *Service
	orders   OrderAccess
	validate *validator.Validate
}

func NewHandler(s *Service, orders OrderAccess) *Handler {
	return &Handler{service: s, orders: orders, validate: validator.New()}
}

// RegisterPublicRoutes exposes the gateway callback. Real gateways sign
// their webhooks; here the payload is taken at face value.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payments/webhook", h.webhook)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders/:id<[0-9]+>/payment", h.getForOrder)
	app.Post("/api/v1/payments/:id<[0-9]+>/cancel", h.cancel)
	app.Post("/api/v1/payments/:id<[0-9]+>/refund", h.refund)
}

func (h *Handler) getForOrder(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	ok, err := h.orders.OwnedBy(orderID, userID)
	if err != nil || !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "order not found"})
	}
	p, err := h.service.GetByOrderID(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"payment": p}})
}

type webhookRequest struct {
	PaymentID       int             `json:"payment_id" validate:"required"`
	Status          string          `json:"status" validate:"required,oneof=processing completed failed"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	GatewayResponse json.RawMessage `json:"gateway_response,omitempty"`
}

func (h *Handler) webhook(c *fiber.Ctx) error {
	payload := new(webhookRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": "validation failed"})
	}

	var (
		p   Payment
		err error
	)
	switch payload.Status {
	case "processing":
		p, err = h.service.MarkProcessing(payload.PaymentID, payload.TransactionID)
	case "completed":
		p, err = h.service.MarkCompleted(payload.PaymentID, payload.TransactionID, payload.GatewayResponse)
	case "failed":
		p, err = h.service.MarkFailed(payload.PaymentID, payload.GatewayResponse)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"payment": p}})
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	p, ok := h.ownedPayment(c)
	if !ok {
		return nil
	}
	p, err := h.service.MarkCancelled(p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "payment cancelled", "data": fiber.Map{"payment": p}})
}

type refundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) refund(c *fiber.Ctx) error {
	p, ok := h.ownedPayment(c)
	if !ok {
		return nil
	}
	payload := new(refundRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	amount := payload.Amount
	if amount.IsZero() {
		// no amount means a full refund of what remains
		amount = p.Amount.Sub(p.RefundAmount)
	}
	p, err := h.service.Refund(p.ID, amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "payment refunded", "data": fiber.Map{"payment": p}})
}

// ownedPayment loads the payment from the :id param and checks that the
// caller owns the parent order. When it returns false the response has
// already been written.
func (h *Handler) ownedPayment(c *fiber.Ctx) (Payment, bool) {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
		return Payment{}, false
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
		return Payment{}, false
	}
	p, err := h.service.repo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return Payment{}, false
	}
	ok, err := h.orders.OwnedBy(p.OrderID, userID)
	if err != nil || !ok {
		c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "payment not found"})
		return Payment{}, false
	}
	return p, true
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrRefundTooLarge):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
