package controllers

import (
	"net/http"

	"sportsstore/models"
	"sportsstore/services"
	"sportsstore/validation"

	"github.com/gin-gonic/gin"
)

var adminRoutes = actionRoutes{
	services.ActionIndex: "/admin/products",
}

type AdminController struct {
	admin services.AdminService
}

func NewAdminController(admin services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

// List handles GET /admin/products
func (ac *AdminController) List(ctx *gin.Context) {
	result, err := ac.admin.List(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	render(ctx, result, adminRoutes)
}

// Create handles GET /admin/products/new
func (ac *AdminController) Create(ctx *gin.Context) {
	render(ctx, ac.admin.Create(), adminRoutes)
}

// Edit handles GET /admin/products/:id
func (ac *AdminController) Edit(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	result, err := ac.admin.Edit(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if result.Model == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	render(ctx, result, adminRoutes)
}

// Save handles POST /admin/products and PUT /admin/products/:id. A POST
// without an id creates a product.
func (ac *AdminController) Save(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if ctx.Param("id") != "" {
		id, ok := parseID(ctx)
		if !ok {
			return
		}
		product.ID = id
	}

	result, err := ac.admin.Save(ctx.Request.Context(), product, validation.Validate(product))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	render(ctx, result, adminRoutes)
}

// Delete handles DELETE /admin/products/:id
func (ac *AdminController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	result, err := ac.admin.Delete(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	render(ctx, result, adminRoutes)
}

// Receipts handles GET /admin/receipts
func (ac *AdminController) Receipts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	receipts, total, err := ac.admin.Receipts(ctx.Request.Context(), models.ReceiptFilter{
		Status:   ctx.Query("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"receipts": receipts,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
