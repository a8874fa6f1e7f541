package routes

import (
	"careconnect/internal/adapter/http/handlers"
	"careconnect/internal/adapter/http/middleware"
	"careconnect/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathBookings = "/bookings"
	PathWebhooks = "/webhooks"
	PathAdmin    = "/admin"
)

func addBookingRoutes(rg *gin.RouterGroup, jwtSecret string, bookingHandler *handlers.BookingHandler, quoteHandler *handlers.QuoteHandler) {
	bookings := rg.Group(PathBookings, middleware.Identity(jwtSecret))
	{
		bookings.POST("", middleware.RequireRole(entities.RoleFamily), bookingHandler.CreateBooking)
		bookings.GET("", bookingHandler.ListBookings)
		bookings.POST("/quote", quoteHandler.Quote)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.POST("/:id/accept", middleware.RequireRole(entities.RoleCaregiver), bookingHandler.AcceptBooking)
		bookings.POST("/:id/decline", middleware.RequireRole(entities.RoleCaregiver), bookingHandler.DeclineBooking)
		bookings.POST("/:id/checkout", middleware.RequireRole(entities.RoleFamily), bookingHandler.Checkout)
		bookings.POST("/:id/complete", middleware.RequireRole(entities.RoleFamily), bookingHandler.CompleteBooking)
	}
}

// addWebhookRoutes is unauthenticated; deliveries are verified by signature.
func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.PaymentWebhookHandler) {
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/payment-provider", webhookHandler.Receive)
	}
}

func addAdminRoutes(rg *gin.RouterGroup, jwtSecret string, adminHandler *handlers.AdminHandler) {
	admin := rg.Group(PathAdmin, middleware.Identity(jwtSecret), middleware.RequireRole(entities.RoleAdmin))
	{
		admin.POST("/release-payments", adminHandler.ReleasePayments)
	}
}
