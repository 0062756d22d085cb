package order

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yassirmk/cleanshop-backend/internal/cart"
	"github.com/yassirmk/cleanshop-backend/internal/events"
	"github.com/yassirmk/cleanshop-backend/internal/pricing"
	"github.com/yassirmk/cleanshop-backend/internal/shipping"
)

// ZoneResolver narrows the shipping service to what checkout needs.
type ZoneResolver interface {
	ResolveByCity(city string) (*shipping.Zone, error)
}

// CheckoutInput is the validated checkout payload handed to the service.
type CheckoutInput struct {
	ShippingAddress Address
	BillingAddress  *Address
	PaymentMethod   string
	Notes           *string
	Email           *string
}

type Service struct {
	repo      Repository
	zones     ZoneResolver
	calc      pricing.Calculator
	publisher events.Publisher
	currency  string
}

func NewService(repo Repository, zones ZoneResolver, calc pricing.Calculator, publisher events.Publisher, currency string) *Service {
	return &Service{repo: repo, zones: zones, calc: calc, publisher: publisher, currency: currency}
}

// PlaceOrder runs the checkout: zone resolution up front, then the
// atomic cart-to-order transaction, then a best-effort event.
func (s *Service) PlaceOrder(owner cart.Owner, in CheckoutInput) (Order, error) {
	fee := s.calc.FlatShippingFee
	zone, err := s.zones.ResolveByCity(in.ShippingAddress.City)
	if err != nil {
		return Order{}, err
	}
	if zone != nil {
		fee = zone.ShippingCost
	}

	ord, err := s.repo.PlaceOrder(PlaceInput{
		Owner:           owner,
		CustomerEmail:   in.Email,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		PaymentMethod:   in.PaymentMethod,
		Currency:        s.currency,
		Notes:           in.Notes,
		ShippingFee:     fee,
	})
	if err != nil {
		return Order{}, err
	}

	s.publish(events.TypeOrderPlaced, ord)
	return ord, nil
}

// Get returns an order scoped to its owner.
func (s *Service) Get(orderID int, userID int) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID == nil || *ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) List(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// Track is the public lookup by order number. When an email is given it
// must match the one captured at checkout; guests prove ownership that
// way.
func (s *Service) Track(number string, email string) (Order, error) {
	ord, err := s.repo.GetByNumber(number)
	if err != nil {
		return Order{}, err
	}
	if email != "" {
		if ord.CustomerEmail == nil || !strings.EqualFold(*ord.CustomerEmail, email) {
			return Order{}, ErrNotFound
		}
	}
	return ord, nil
}

// Cancel refuses with (order, false, nil) when the order is past the
// cancellable states; callers treat the false as the error signal.
func (s *Service) Cancel(orderID int, userID int, reason string) (Order, bool, error) {
	ord, ok, err := s.repo.Cancel(orderID, userID, reason)
	if err != nil || !ok {
		return ord, ok, err
	}
	s.publish(events.TypeOrderCancelled, ord)
	return ord, true, nil
}

// SetPaymentStatus implements the payment package's OrderSync: the one
// sanctioned coupling between the payment machine and the order.
func (s *Service) SetPaymentStatus(orderID int, status string) error {
	return s.repo.SetPaymentStatus(orderID, PaymentStatus(status))
}

// OwnedBy reports whether the order belongs to the user.
func (s *Service) OwnedBy(orderID int, userID int) (bool, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return false, err
	}
	return ord.UserID != nil && *ord.UserID == userID, nil
}

func (s *Service) publish(eventType string, ord Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.publisher.Publish(ctx, events.OrderEvent{
		Type:        eventType,
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		UserID:      ord.UserID,
		Total:       ord.Total.StringFixed(2),
		Currency:    ord.Currency,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		// events are best-effort; the order already committed
		logrus.WithError(err).WithField("order_number", ord.OrderNumber).Warn("failed to publish order event")
	}
}
