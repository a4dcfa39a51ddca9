package services

import (
	"context"
	"errors"

	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/validation"

	"go.uber.org/zap"
)

const (
	ViewCompleted = "Completed"
	ViewIndex     = "Index"
	ViewSummary   = "Summary"

	ActionIndex = "Index"
)

// CartService implements the shopper-facing cart pages. Each operation works
// on the session cart passed in; persisting it is the caller's job.
type CartService interface {
	Index(cart *models.Cart, returnURL string) models.ActionResult
	AddToCart(ctx context.Context, cart *models.Cart, productID int64, returnURL string) (models.ActionResult, error)
	RemoveFromCart(ctx context.Context, cart *models.Cart, productID int64, returnURL string) (models.ActionResult, error)
	Summary(cart *models.Cart) models.ActionResult
	CheckoutForm() models.ActionResult
	Checkout(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) (models.ActionResult, error)
}

type cartServiceImpl struct {
	repo     repository.ProductRepository
	checkout CheckoutService
	logger   *zap.Logger
}

func NewCartService(repo repository.ProductRepository, checkout CheckoutService, logger *zap.Logger) CartService {
	return &cartServiceImpl{repo: repo, checkout: checkout, logger: logger}
}

func (s *cartServiceImpl) Index(cart *models.Cart, returnURL string) models.ActionResult {
	return models.ShowView(ViewIndex, models.CartIndexViewModel{Cart: cart, ReturnURL: returnURL}, validation.ModelState{})
}

// AddToCart adds one unit of the product. Unknown ids leave the cart alone.
func (s *cartServiceImpl) AddToCart(ctx context.Context, cart *models.Cart, productID int64, returnURL string) (models.ActionResult, error) {
	product, err := s.lookup(ctx, productID)
	if err != nil {
		return models.ActionResult{}, err
	}
	if product != nil {
		cart.AddItem(*product, 1)
	}
	return backToIndex(returnURL), nil
}

func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, cart *models.Cart, productID int64, returnURL string) (models.ActionResult, error) {
	product, err := s.lookup(ctx, productID)
	if err != nil {
		return models.ActionResult{}, err
	}
	if product != nil {
		cart.RemoveLine(*product)
	} else {
		// the product may have left the catalog while still in the cart
		cart.RemoveLine(models.Product{ID: productID})
	}
	return backToIndex(returnURL), nil
}

func (s *cartServiceImpl) Summary(cart *models.Cart) models.ActionResult {
	return models.ShowView(ViewSummary, models.CartSummaryViewModel{
		ItemCount: cart.ItemCount(),
		Total:     cart.ComputeTotalValue().StringFixed(2),
	}, validation.ModelState{})
}

func (s *cartServiceImpl) CheckoutForm() models.ActionResult {
	return models.ShowView("", models.ShippingDetails{}, validation.ModelState{})
}

// Checkout validates shipping and runs the checkout flow. An invalid
// submission redisplays the default view with its errors.
func (s *cartServiceImpl) Checkout(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) (models.ActionResult, error) {
	result, err := s.checkout.Checkout(ctx, cart, shipping, validation.Validate(shipping))
	if err != nil {
		return models.ActionResult{}, err
	}
	if result.Outcome == CheckoutCompleted {
		return models.ShowView(ViewCompleted, nil, result.State), nil
	}
	return models.ShowView("", shipping, result.State), nil
}

func (s *cartServiceImpl) lookup(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		s.logger.Debug("Cart references unknown product", zap.Int64("product_id", productID))
		return nil, nil
	}
	return product, err
}

func backToIndex(returnURL string) models.ActionResult {
	return models.Redirect(ActionIndex, map[string]string{"returnUrl": returnURL})
}
