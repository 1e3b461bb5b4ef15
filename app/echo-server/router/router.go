package router

import (
	"shoply/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/refresh", handler.RefreshToken)
	users.GET("/email-verification/:code", handler.VerifyEmail)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/profile", handler.GetProfile, authRequired)
	users.PUT("/profile", handler.UpdateProfile, authRequired)

	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, optionalAuth, authRequired, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	// public reads still honor an admin token when one is sent
	categories.GET("", handler.GetAllCategories, optionalAuth)
	categories.GET("/:id", handler.GetCategoryByID, optionalAuth)

	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, optionalAuth, authRequired, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts, optionalAuth)
	products.GET("/search", handler.SearchProducts)
	products.GET("/:id", handler.GetProductByID, optionalAuth)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
	products.GET("/low-stock", handler.GetLowStockProducts, authRequired, adminOnly)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.POST("/items", handler.AddItem)
	cart.PUT("/items/:id", handler.UpdateItem)
	cart.DELETE("/items/:id", handler.RemoveItem)
}
