package routes

import (
	"sportsstore/controllers"
	"sportsstore/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterCatalogRoutes(r *gin.Engine, catalog *controllers.CatalogController) {
	r.GET("/", catalog.List)
	r.GET("/products", catalog.List)
	r.GET("/categories", catalog.Menu)
}

// RegisterCartRoutes mounts the cart pages behind the session cookie.
func RegisterCartRoutes(r *gin.Engine, cart *controllers.CartController, sessionCookie string) {
	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.Session(sessionCookie))
	{
		cartRoutes.GET("", cart.Index)
		cartRoutes.GET("/summary", cart.Summary)
		cartRoutes.POST("/add", cart.AddToCart)
		cartRoutes.POST("/remove", cart.RemoveFromCart)
		cartRoutes.GET("/checkout", cart.CheckoutForm)
		cartRoutes.POST("/checkout", cart.Checkout)
	}
}

// RegisterAdminRoutes mounts the catalog administration pages. Gateway role
// headers are trusted only when trustGatewayHeaders is set.
func RegisterAdminRoutes(r *gin.Engine, admin *controllers.AdminController, jwtSecret string, trustGatewayHeaders bool) {
	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth(jwtSecret, trustGatewayHeaders))
	{
		adminRoutes.GET("/products", admin.List)
		adminRoutes.GET("/products/new", admin.Create)
		adminRoutes.GET("/products/:id", admin.Edit)
		adminRoutes.POST("/products", admin.Save)
		adminRoutes.PUT("/products/:id", admin.Save)
		adminRoutes.DELETE("/products/:id", admin.Delete)
		adminRoutes.GET("/receipts", admin.Receipts)
	}
}
