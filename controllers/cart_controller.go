package controllers

import (
	"fmt"
	"net/http"

	"sportsstore/middleware"
	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var cartRoutes = actionRoutes{
	services.ActionIndex: "/cart",
}

type CartController struct {
	cart   services.CartService
	carts  repository.CartRepository
	logger *zap.Logger
}

func NewCartController(cart services.CartService, carts repository.CartRepository, logger *zap.Logger) *CartController {
	return &CartController{cart: cart, carts: carts, logger: logger}
}

type cartLineRequest struct {
	ProductID int64  `json:"product_id" form:"productId" binding:"required"`
	ReturnURL string `json:"return_url" form:"returnUrl"`
}

// Index handles GET /cart
func (cc *CartController) Index(ctx *gin.Context) {
	cart, _, ok := cc.loadCart(ctx)
	if !ok {
		return
	}
	render(ctx, cc.cart.Index(cart, ctx.Query("returnUrl")), cartRoutes)
}

// Summary handles GET /cart/summary
func (cc *CartController) Summary(ctx *gin.Context) {
	cart, _, ok := cc.loadCart(ctx)
	if !ok {
		return
	}
	render(ctx, cc.cart.Summary(cart), cartRoutes)
}

// AddToCart handles POST /cart/add
func (cc *CartController) AddToCart(ctx *gin.Context) {
	var req cartLineRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	cart, sessionID, ok := cc.loadCart(ctx)
	if !ok {
		return
	}

	result, err := cc.cart.AddToCart(ctx.Request.Context(), cart, req.ProductID, req.ReturnURL)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if !cc.saveCart(ctx, sessionID, cart) {
		return
	}
	render(ctx, result, cartRoutes)
}

// RemoveFromCart handles POST /cart/remove
func (cc *CartController) RemoveFromCart(ctx *gin.Context) {
	var req cartLineRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	cart, sessionID, ok := cc.loadCart(ctx)
	if !ok {
		return
	}

	result, err := cc.cart.RemoveFromCart(ctx.Request.Context(), cart, req.ProductID, req.ReturnURL)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if !cc.saveCart(ctx, sessionID, cart) {
		return
	}
	render(ctx, result, cartRoutes)
}

// CheckoutForm handles GET /cart/checkout
func (cc *CartController) CheckoutForm(ctx *gin.Context) {
	render(ctx, cc.cart.CheckoutForm(), cartRoutes)
}

// Checkout handles POST /cart/checkout
func (cc *CartController) Checkout(ctx *gin.Context) {
	var shipping models.ShippingDetails
	if err := ctx.ShouldBind(&shipping); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	cart, sessionID, ok := cc.loadCart(ctx)
	if !ok {
		return
	}

	result, err := cc.cart.Checkout(ctx.Request.Context(), cart, shipping)
	if err != nil {
		_ = ctx.Error(fmt.Errorf("checkout session %s: %w", sessionID, err))
		return
	}
	if result.ViewName == services.ViewCompleted && !cc.saveCart(ctx, sessionID, cart) {
		return
	}
	render(ctx, result, cartRoutes)
}

func (cc *CartController) loadCart(ctx *gin.Context) (*models.Cart, string, bool) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session required"})
		return nil, "", false
	}
	cart, err := cc.carts.GetCart(ctx.Request.Context(), sessionID)
	if err != nil {
		_ = ctx.Error(fmt.Errorf("load cart: %w", err))
		return nil, "", false
	}
	return cart, sessionID, true
}

func (cc *CartController) saveCart(ctx *gin.Context, sessionID string, cart *models.Cart) bool {
	if err := cc.carts.SaveCart(ctx.Request.Context(), sessionID, cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		_ = ctx.Error(fmt.Errorf("save cart: %w", err))
		return false
	}
	return true
}
