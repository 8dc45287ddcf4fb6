package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"justeat/cache"
	"justeat/guard"
	"justeat/handlers"
	"justeat/metrics"
	"justeat/middleware"
	"justeat/models"
)

type Options struct {
	Handler      *handlers.Handler
	Metrics      *metrics.Metrics
	CartLimiter  *cache.RateLimiter
	AllowOrigins []string
	Log          logrus.FieldLogger
}

func SetupRouters(opts Options) *gin.Engine {
	h := opts.Handler

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Log),
		middleware.Metrics(opts.Metrics),
		cors.New(corsConfig(opts.AllowOrigins)),
	)
	_ = router.SetTrustedProxies(nil)

	router.Static("/uploads", h.UploadsDir)
	router.GET("/health", handlers.Health)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	restaurants := opts.Handler.Restaurants
	menuItems := opts.Handler.MenuItems

	api := router.Group("/api/v1", middleware.AuthMiddleware(h.Auth, opts.Log))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", guard.Chain(guard.Authenticated()), h.Logout)
	}

	profile := api.Group("/profile", guard.Chain(guard.Authenticated()))
	{
		profile.GET("", h.Profile)
		profile.PUT("", h.UpdateProfile)
	}

	customer := api.Group("", guard.Chain(guard.Authenticated(), guard.RequireRole(models.RoleCustomer)))
	{
		customer.GET("/home", h.Home)
		customer.GET("/search", h.SearchCatalog)
		customer.GET("/cuisines", h.Cuisines)

		customer.GET("/:slug/menu", guard.Chain(guard.RestaurantExists(restaurants)), h.Menu)
		customer.GET("/:slug/reviews", guard.Chain(guard.RestaurantExists(restaurants)), h.Reviews)
		customer.POST("/:slug/cart/add/:item_id",
			guard.Chain(
				guard.RestaurantExists(restaurants),
				guard.ItemExists(menuItems),
				guard.ItemOnMenu(),
			),
			middleware.CartRateLimit(opts.CartLimiter, opts.Metrics),
			h.AddToCart,
		)
		customer.POST("/:slug/cart/remove/:item_id",
			guard.Chain(guard.RestaurantExists(restaurants), guard.ItemExists(menuItems)),
			h.RemoveFromCart,
		)

		customer.GET("/cart", h.GetCart)
		customer.DELETE("/cart", h.ClearCart)
		customer.POST("/cart/place-order", guard.Chain(guard.CartReady(h.Carts)), h.PlaceOrder)

		customer.GET("/orders", h.ListOrders)
		customer.POST("/orders/:order_id/review",
			guard.Chain(
				guard.OrderExists(h.Orders),
				guard.OrderFromCustomer(),
				guard.NotReviewed(),
			),
			h.ReviewOrder,
		)

		customer.GET("/favorites", h.ListFavorites)
		customer.POST("/restaurant/:restaurant_id/toggle-favorite", h.ToggleFavorite)
		customer.POST("/items/:item_id/toggle-favorite", guard.Chain(guard.ItemExists(menuItems)), h.ToggleItemFavorite)
	}

	owner := api.Group("/restaurants", guard.Chain(guard.Authenticated(), guard.RequireRole(models.RoleOwner)))
	{
		owner.GET("/dashboard", h.Dashboard)
		owner.POST("/new", h.CreateRestaurant)
		owner.POST("/images", h.UploadImage)

		owned := owner.Group("/:slug", guard.Chain(guard.RestaurantExists(restaurants), guard.OwnsRestaurant()))
		owned.GET("", h.OwnerRestaurant)
		owned.PUT("/settings", h.UpdateRestaurant)
		owned.PUT("/cuisines", h.SetCuisines)
		owned.POST("/status/:status", h.SetRestaurantStatus)
		owned.POST("/delete", h.DeleteRestaurant)
		owned.GET("/reviews", h.Reviews)

		owned.GET("/menu", h.OwnerRestaurant)
		owned.POST("/menu/add", h.CreateMenuItem)
		item := owned.Group("/menu/:item_id", guard.Chain(guard.ItemExists(menuItems), guard.ItemOnMenu()))
		item.PUT("/edit", h.UpdateMenuItem)
		item.POST("/delete", h.DeleteMenuItem)
		item.POST("/special/:flag", h.SetItemSpecial)
		item.POST("/active/:flag", h.SetItemActive)

		order := owned.Group("/orders")
		order.GET("", h.RestaurantOrders)
		order.POST("/:order_id/:status",
			guard.Chain(guard.OrderExists(h.Orders), guard.OrderForRestaurant()),
			h.UpdateOrderStatus,
		)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found", "redirect": guard.DashboardOf(c)})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Request-ID")
	config.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
