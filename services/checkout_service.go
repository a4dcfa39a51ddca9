package services

import (
	"context"

	"sportsstore/models"
	"sportsstore/validation"

	"go.uber.org/zap"
)

type CheckoutOutcome int

const (
	CheckoutInvalid CheckoutOutcome = iota
	CheckoutCompleted
)

func (o CheckoutOutcome) String() string {
	if o == CheckoutCompleted {
		return "completed"
	}
	return "invalid"
}

const EmptyCartMessage = "Sorry, your cart is empty!"

type CheckoutResult struct {
	Outcome CheckoutOutcome
	State   validation.ModelState
}

// CheckoutService gates order submission on a non-empty cart and valid
// shipping details.
type CheckoutService interface {
	// Checkout submits the cart when it has lines and state, the validation
	// result for shipping, is valid. The cart is cleared on completion. An
	// error is returned only when the order processor fails.
	Checkout(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails, state validation.ModelState) (CheckoutResult, error)
}

type checkoutServiceImpl struct {
	processor OrderProcessor
	logger    *zap.Logger
}

func NewCheckoutService(processor OrderProcessor, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{processor: processor, logger: logger}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails, state validation.ModelState) (CheckoutResult, error) {
	if cart.IsEmpty() {
		state = state.AddError(validation.FormKey, EmptyCartMessage)
	}
	if !state.IsValid() {
		return CheckoutResult{Outcome: CheckoutInvalid, State: state}, nil
	}

	if err := s.processor.ProcessOrder(ctx, cart, shipping); err != nil {
		return CheckoutResult{}, err
	}

	s.logger.Info("Checkout completed",
		zap.Int("lines", len(cart.Lines())),
		zap.String("total", cart.ComputeTotalValue().StringFixed(2)),
	)
	cart.Clear()
	return CheckoutResult{Outcome: CheckoutCompleted, State: state}, nil
}
