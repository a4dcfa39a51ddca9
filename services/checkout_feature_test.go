package services_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"sportsstore/models"
	"sportsstore/services"
	"sportsstore/validation"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type checkoutFeature struct {
	repo      *spyRepo
	processor *mockProcessor
	cart      *models.Cart
	service   services.CartService
	result    models.ActionResult
}

func (f *checkoutFeature) reset() {
	f.repo = newSpyRepo()
	f.processor = &mockProcessor{}
	f.cart = models.NewCart()
	f.service = services.NewCartService(f.repo, services.NewCheckoutService(f.processor, zap.NewNop()), zap.NewNop())
	f.result = models.ActionResult{}
}

func (f *checkoutFeature) theCatalogContains(table *godog.Table) error {
	var products []models.Product
	for _, row := range table.Rows[1:] {
		id, err := strconv.ParseInt(row.Cells[0].Value, 10, 64)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		products = append(products, models.Product{ID: id, Name: row.Cells[1].Value, Price: price})
	}
	f.repo = newSpyRepo(products...)
	f.service = services.NewCartService(f.repo, services.NewCheckoutService(f.processor, zap.NewNop()), zap.NewNop())
	return nil
}

func (f *checkoutFeature) anEmptyCart() error {
	f.cart = models.NewCart()
	return nil
}

func (f *checkoutFeature) iAddProductToTheCart(id int) error {
	_, err := f.service.AddToCart(context.Background(), f.cart, int64(id), "")
	return err
}

func (f *checkoutFeature) iRemoveProductFromTheCart(id int) error {
	_, err := f.service.RemoveFromCart(context.Background(), f.cart, int64(id), "")
	return err
}

func (f *checkoutFeature) iCheckOutWithValidShippingDetails() error {
	return f.checkout(validShipping())
}

func (f *checkoutFeature) iCheckOutWithShippingDetailsMissingThe(field string) error {
	shipping := validShipping()
	switch field {
	case "name":
		shipping.Name = ""
	case "line1":
		shipping.Line1 = ""
	case "city":
		shipping.City = ""
	case "state":
		shipping.State = ""
	case "zip":
		shipping.Zip = ""
	case "country":
		shipping.Country = ""
	default:
		return fmt.Errorf("unknown shipping field %q", field)
	}
	return f.checkout(shipping)
}

func (f *checkoutFeature) checkout(shipping models.ShippingDetails) error {
	result, err := f.service.Checkout(context.Background(), f.cart, shipping)
	if err != nil {
		return err
	}
	f.result = result
	return nil
}

func (f *checkoutFeature) theCartHasLines(n int) error {
	if got := len(f.cart.Lines()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (f *checkoutFeature) theCartHoldsOf(qty int, name string) error {
	for _, l := range f.cart.Lines() {
		if l.Product.Name == name {
			if l.Quantity != qty {
				return fmt.Errorf("expected %d of %s, got %d", qty, name, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no line for %s", name)
}

func (f *checkoutFeature) theCartTotalIs(total string) error {
	if got := f.cart.ComputeTotalValue().StringFixed(2); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (f *checkoutFeature) theCartIsEmpty() error {
	if !f.cart.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", len(f.cart.Lines()))
	}
	return nil
}

func (f *checkoutFeature) theCheckoutIsInvalid() error {
	if f.result.State.IsValid() {
		return errors.New("expected validation errors")
	}
	if f.result.ViewName != "" {
		return fmt.Errorf("expected the default view, got %q", f.result.ViewName)
	}
	return nil
}

func (f *checkoutFeature) theCheckoutIsCompleted() error {
	if f.result.ViewName != services.ViewCompleted {
		return fmt.Errorf("expected view %s, got %q", services.ViewCompleted, f.result.ViewName)
	}
	return nil
}

func (f *checkoutFeature) theFormErrorIs(msg string) error {
	for _, m := range f.result.State.FieldErrors(validation.FormKey) {
		if m == msg {
			return nil
		}
	}
	return fmt.Errorf("form error %q not found in %v", msg, f.result.State.Errors())
}

func (f *checkoutFeature) theFieldHasAnError(field string) error {
	if len(f.result.State.FieldErrors(field)) == 0 {
		return fmt.Errorf("no error for %s in %v", field, f.result.State.Errors())
	}
	return nil
}

func (f *checkoutFeature) noOrderWasSubmitted() error {
	if n := len(f.processor.calls); n != 0 {
		return fmt.Errorf("expected no orders, got %d", n)
	}
	return nil
}

func (f *checkoutFeature) ordersWereSubmittedWithLines(orders, lines int) error {
	if n := len(f.processor.calls); n != orders {
		return fmt.Errorf("expected %d orders, got %d", orders, n)
	}
	if n := len(f.processor.calls[0].lines); n != lines {
		return fmt.Errorf("expected %d lines in the order, got %d", lines, n)
	}
	return nil
}

func initializeCheckoutScenario(ctx *godog.ScenarioContext) {
	f := &checkoutFeature{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog contains:$`, f.theCatalogContains)
	ctx.Step(`^an empty cart$`, f.anEmptyCart)
	ctx.Step(`^I add product (\d+) to the cart$`, f.iAddProductToTheCart)
	ctx.Step(`^I remove product (\d+) from the cart$`, f.iRemoveProductFromTheCart)
	ctx.Step(`^I check out with valid shipping details$`, f.iCheckOutWithValidShippingDetails)
	ctx.Step(`^I check out with shipping details missing the "([^"]*)"$`, f.iCheckOutWithShippingDetailsMissingThe)

	ctx.Step(`^the cart has (\d+) lines?$`, f.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, f.theCartHoldsOf)
	ctx.Step(`^the cart total is "([^"]*)"$`, f.theCartTotalIs)
	ctx.Step(`^the cart is empty$`, f.theCartIsEmpty)
	ctx.Step(`^the checkout is invalid$`, f.theCheckoutIsInvalid)
	ctx.Step(`^the checkout is completed$`, f.theCheckoutIsCompleted)
	ctx.Step(`^the form error is "([^"]*)"$`, f.theFormErrorIs)
	ctx.Step(`^the field "([^"]*)" has an error$`, f.theFieldHasAnError)
	ctx.Step(`^no order was submitted$`, f.noOrderWasSubmitted)
	ctx.Step(`^(\d+) orders? (?:was|were) submitted with (\d+) lines$`, f.ordersWereSubmittedWithLines)
}

func TestCheckoutFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
