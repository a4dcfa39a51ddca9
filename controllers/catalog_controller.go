package controllers

import (
	"strconv"

	"sportsstore/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// List handles GET / and /products
func (cc *CatalogController) List(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := cc.catalog.List(ctx.Request.Context(), ctx.Query("category"), page)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	render(ctx, result, nil)
}

// Menu handles GET /categories
func (cc *CatalogController) Menu(ctx *gin.Context) {
	result, err := cc.catalog.Menu(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	render(ctx, result, nil)
}
