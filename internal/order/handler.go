package order

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
	"github.com/yassirmk/cleanshop-backend/internal/cart"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s, validate: validator.New()}
}

// RegisterPublicRoutes covers checkout (guests included) and tracking.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.create)
	app.Post("/api/v1/orders/track", h.track)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.list)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.get)
	app.Put("/api/v1/orders/:id<[0-9]+>/cancel", h.cancel)
}

type addressPayload struct {
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	AddressLine1 string  `json:"address_line_1" validate:"required"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	City         string  `json:"city" validate:"required"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      string  `json:"country" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
}

func (a addressPayload) toAddress() Address {
	return Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

type createRequest struct {
	ShippingAddress addressPayload  `json:"shipping_address" validate:"required"`
	BillingAddress  *addressPayload `json:"billing_address,omitempty"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=card paypal cash_on_delivery"`
	Notes           *string         `json:"notes,omitempty"`
	Email           *string         `json:"email,omitempty" validate:"omitempty,email"`
	SessionID       string          `json:"session_id,omitempty"`
}

func (h *Handler) create(c *fiber.Ctx) error {
	payload := new(createRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "validation failed",
			"errors":  validationErrors(err),
		})
	}

	owner, ok := resolveOwner(c, payload.SessionID)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": "session_id required for guest checkout"})
	}

	ord, err := h.service.PlaceOrder(owner, CheckoutInput{
		ShippingAddress: payload.ShippingAddress.toAddress(),
		BillingAddress:  billingAddress(payload.BillingAddress),
		PaymentMethod:   payload.PaymentMethod,
		Notes:           payload.Notes,
		Email:           payload.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "order placed",
		"data": fiber.Map{
			"order": ord,
			"payment": fiber.Map{
				"id":     ord.Payment.ID,
				"status": ord.Payment.Status,
				"method": ord.Payment.Method,
				"amount": ord.Payment.Amount,
			},
		},
	})
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	orders, err := h.service.List(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"orders": orders}})
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	ord, err := h.service.Get(id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"order": ord}})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	payload := new(cancelRequest)
	if err := c.BodyParser(payload); err != nil && err != fiber.ErrUnprocessableEntity {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Reason == "" {
		payload.Reason = "cancelled by customer"
	}

	ord, ok, err := h.service.Cancel(id, userID, payload.Reason)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "order can no longer be cancelled"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "order cancelled", "data": fiber.Map{"order": ord}})
}

type trackRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

func (h *Handler) track(c *fiber.Ctx) error {
	payload := new(trackRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "validation failed",
			"errors":  validationErrors(err),
		})
	}
	ord, err := h.service.Track(payload.OrderNumber, payload.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"order": ord}})
}

// resolveOwner prefers the authenticated user and falls back to the
// anonymous session id from the payload.
func resolveOwner(c *fiber.Ctx, sessionID string) (cart.Owner, bool) {
	if userID := auth.OptionalUserID(c); userID > 0 {
		return cart.ForUser(userID), true
	}
	if sessionID != "" {
		return cart.ForSession(sessionID), true
	}
	return cart.Owner{}, false
}

func billingAddress(p *addressPayload) *Address {
	if p == nil {
		return nil
	}
	a := p.toAddress()
	return &a
}

// respondError maps the error taxonomy onto HTTP codes instead of
// collapsing business failures into 500s.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, product.ErrUnavailable), errors.Is(err, product.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, product.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}

func validationErrors(err error) fiber.Map {
	out := fiber.Map{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}
