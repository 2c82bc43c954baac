package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glimora/glimora-backend-go/handlers"
	customMiddleware "github.com/glimora/glimora-backend-go/middleware"
)

func SetupRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth is identity-attaching, not gate-keeping: handlers decide what an
	// anonymous caller may do.
	api := e.Group("/api")
	api.Use(customMiddleware.AuthMiddleware)

	// User routes
	users := api.Group("/users")
	users.POST("", handlers.CreateUser)
	users.POST("/login", handlers.LoginUser)
	users.GET("/me", handlers.GetUser)
	users.PUT("/me", handlers.UpdateUserProfile)
	users.PUT("/me/password", handlers.UpdatePassword)
	users.GET("/membership", handlers.GetMembershipInfo)
	users.GET("/all-users", handlers.GetAllUsers)
	users.PUT("/block/:email", handlers.BlockOrUnblockUser)
	users.GET("/send-otp/:email", handlers.SendOTP)
	users.POST("/change-password", handlers.ChangePasswordViaOTP)

	// Product routes
	products := api.Group("/products")
	products.GET("", handlers.GetProducts)
	products.GET("/:productID", handlers.GetProduct)
	products.POST("", handlers.CreateProduct)
	products.PUT("/:productID", handlers.UpdateProduct)
	products.DELETE("/:productID", handlers.DeleteProduct)

	// Order routes
	orders := api.Group("/orders")
	orders.POST("", handlers.CreateOrder)
	orders.GET("", handlers.GetOrders)
	orders.PUT("/status/:orderID", handlers.UpdateOrderStatus)
	orders.PUT("/payment-status/:orderID", handlers.UpdatePaymentStatus)
	orders.POST("/:orderID/approve-payment", handlers.ApprovePayment)
	orders.POST("/:orderID/reject-payment", handlers.RejectPayment)
	orders.PUT("/tracking/:orderID", handlers.UpdateTrackingInfo)
	orders.POST("/tracking/:orderID/update", handlers.AddTrackingUpdate)
	orders.PUT("/:orderID/cancel", handlers.RequestCancellation)
	orders.PUT("/:orderID/return", handlers.RequestReturn)
	orders.PUT("/:orderID/received", handlers.ConfirmReceived)
	orders.POST("/:orderID/feedback", handlers.AddOrderFeedback)
	orders.POST("/:orderID/admin-response", handlers.AddAdminResponse)
	orders.POST("/notification/:orderID/mark-seen", handlers.MarkOrderNotificationSeen)

	// Message routes
	messages := api.Group("/messages")
	messages.POST("", handlers.CreateMessage)
	messages.GET("/my-messages", handlers.GetUserMessages)
	messages.GET("", handlers.GetAllMessages)
	messages.POST("/admin/send", handlers.SendAdminMessage)
	messages.GET("/:id", handlers.GetMessageByID)
	messages.POST("/:id/reply", handlers.ReplyToMessage)
	messages.PUT("/:id/status", handlers.UpdateMessageStatus)
	messages.POST("/:id/mark-read", handlers.MarkMessageRead)
	messages.POST("/:id/user-read", handlers.MarkUserMessageRead)
	messages.PUT("/:id/archive", handlers.ToggleArchiveMessage)
	messages.PUT("/:id/star", handlers.ToggleStarMessage)
	messages.DELETE("/:id", handlers.DeleteMessage)
	messages.DELETE("/my/:id", handlers.DeleteUserMessage)

	// Wishlist routes
	wishlist := api.Group("/wishlist")
	wishlist.POST("", handlers.AddToWishlist)
	wishlist.GET("", handlers.GetWishlist)
	wishlist.DELETE("/:productId", handlers.RemoveFromWishlist)
	wishlist.DELETE("", handlers.ClearWishlist)
	wishlist.GET("/admin/all", handlers.GetAllWishlists)
	wishlist.GET("/admin/stats", handlers.GetWishlistStats)
}
