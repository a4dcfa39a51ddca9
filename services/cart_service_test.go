package services_test

import (
	"context"
	"testing"

	"sportsstore/models"
	"sportsstore/services"
	"sportsstore/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCartService(repo *spyRepo, processor *mockProcessor) services.CartService {
	return services.NewCartService(repo, newCheckout(processor), zap.NewNop())
}

func TestCartService_AddToCart(t *testing.T) {
	repo := newSpyRepo(product(1, "P1", 10), product(2, "P2", 20))
	svc := newCartService(repo, &mockProcessor{})
	cart := models.NewCart()

	_, err := svc.AddToCart(context.Background(), cart, 1, "")

	require.NoError(t, err)
	assert.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(1), cart.Lines()[0].Product.ID)
}

func TestCartService_AddToCartRedirectsToIndex(t *testing.T) {
	repo := newSpyRepo(product(1, "P1", 10), product(2, "P2", 20))
	svc := newCartService(repo, &mockProcessor{})

	result, err := svc.AddToCart(context.Background(), models.NewCart(), 2, "myUrl")

	require.NoError(t, err)
	assert.False(t, result.IsView())
	assert.Equal(t, "Index", result.Action)
	assert.Equal(t, "myUrl", result.Params["returnUrl"])
}

func TestCartService_AddUnknownProductLeavesCart(t *testing.T) {
	svc := newCartService(newSpyRepo(product(1, "P1", 10)), &mockProcessor{})
	cart := models.NewCart()

	result, err := svc.AddToCart(context.Background(), cart, 99, "/")

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "Index", result.Action)
}

func TestCartService_AddToCartStoreFailure(t *testing.T) {
	repo := newSpyRepo()
	repo.failAll = errDown
	svc := newCartService(repo, &mockProcessor{})

	_, err := svc.AddToCart(context.Background(), models.NewCart(), 1, "/")

	assert.ErrorIs(t, err, errDown)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	repo := newSpyRepo(product(1, "P1", 10), product(2, "P2", 20))
	svc := newCartService(repo, &mockProcessor{})
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", 10), 3)
	cart.AddItem(product(2, "P2", 20), 1)

	_, err := svc.RemoveFromCart(context.Background(), cart, 1, "/")

	require.NoError(t, err)
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(2), cart.Lines()[0].Product.ID)
}

func TestCartService_RemoveProductGoneFromCatalog(t *testing.T) {
	svc := newCartService(newSpyRepo(), &mockProcessor{})
	cart := models.NewCart()
	cart.AddItem(product(5, "Discontinued", 10), 1)

	_, err := svc.RemoveFromCart(context.Background(), cart, 5, "/")

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_IndexViewModel(t *testing.T) {
	svc := newCartService(newSpyRepo(), &mockProcessor{})
	cart := models.NewCart()

	result := svc.Index(cart, "myUrl")

	vm, ok := result.Model.(models.CartIndexViewModel)
	require.True(t, ok)
	assert.Same(t, cart, vm.Cart)
	assert.Equal(t, "myUrl", vm.ReturnURL)
}

func TestCartService_Summary(t *testing.T) {
	svc := newCartService(newSpyRepo(), &mockProcessor{})
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", 25), 2)
	cart.AddItem(product(2, "P2", 10), 1)

	vm := svc.Summary(cart).Model.(models.CartSummaryViewModel)

	assert.Equal(t, 3, vm.ItemCount)
	assert.Equal(t, "60.00", vm.Total)
}

func TestCartService_CheckoutEmptyCart(t *testing.T) {
	processor := &mockProcessor{}
	svc := newCartService(newSpyRepo(), processor)

	result, err := svc.Checkout(context.Background(), models.NewCart(), validShipping())

	require.NoError(t, err)
	assert.Empty(t, processor.calls)
	assert.True(t, result.IsView())
	assert.Equal(t, "", result.ViewName)
	assert.False(t, result.State.IsValid())
}

func TestCartService_CheckoutInvalidShipping(t *testing.T) {
	processor := &mockProcessor{}
	svc := newCartService(newSpyRepo(), processor)
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", 10), 1)
	shipping := validShipping()
	shipping.City = ""

	result, err := svc.Checkout(context.Background(), cart, shipping)

	require.NoError(t, err)
	assert.Empty(t, processor.calls)
	assert.Equal(t, "", result.ViewName)
	assert.Equal(t, shipping, result.Model)
	assert.Len(t, result.State.FieldErrors("city"), 1)
}

func TestCartService_CheckoutCompleted(t *testing.T) {
	processor := &mockProcessor{}
	svc := newCartService(newSpyRepo(), processor)
	cart := models.NewCart()
	cart.AddItem(product(1, "P1", 10), 1)

	result, err := svc.Checkout(context.Background(), cart, validShipping())

	require.NoError(t, err)
	assert.Len(t, processor.calls, 1)
	assert.Equal(t, "Completed", result.ViewName)
	assert.True(t, result.State.IsValid())
	assert.True(t, cart.IsEmpty())
}

func TestCartService_CheckoutForm(t *testing.T) {
	svc := newCartService(newSpyRepo(), &mockProcessor{})

	result := svc.CheckoutForm()

	assert.Equal(t, "", result.ViewName)
	assert.Equal(t, models.ShippingDetails{}, result.Model)
	assert.Equal(t, validation.ModelState{}, result.State)
}
