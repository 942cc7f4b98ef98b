package routes

import (
	"strings"
	"time"

	"hausly/handlers"
	"hausly/middleware"
	"hausly/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	api.Use(middleware.Authenticate(hb.Verifier, hb.TokenCache))
	{
		// The user record does not exist yet when completing a profile.
		api.POST("/profile", hb.User.CompleteProfile)

		loaded := api.Group("")
		loaded.Use(middleware.LoadUser(hb.Users))
		loaded.GET("/me", hb.User.GetMe)
		loaded.PUT("/me", hb.User.UpdateMe)
		loaded.PUT("/me/fcm-token", hb.User.UpdateFCMToken)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(
		middleware.Authenticate(hb.Verifier, hb.TokenCache),
		middleware.LoadUser(hb.Users),
		middleware.RequireRole(models.RoleAdmin),
	)
	{
		admin.GET("/users", hb.Admin.GetAllUsersHandler)
		admin.PUT("/users/:uid/role", hb.Admin.SetRoleHandler)
	}
}

// RegisterServiceRoutes registers the catalog. Listing and reading are public;
// an optional token lets providers see their own inactive services.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", middleware.OptionalAuthenticate(hb.Verifier, hb.TokenCache), hb.Catalog.ListServices)
		// Must stay ahead of /:id.
		api.GET("/categories", hb.Catalog.ListCategories)
		api.GET("/:id", hb.Catalog.GetService)

		owner := api.Group("")
		owner.Use(
			middleware.Authenticate(hb.Verifier, hb.TokenCache),
			middleware.LoadUser(hb.Users),
			middleware.RequireRole(models.RoleProvider, models.RoleAdmin),
		)
		owner.POST("", hb.Catalog.CreateService)
		owner.PUT("/:id", hb.Catalog.UpdateService)
		owner.PATCH("/:id/active", hb.Catalog.SetActive)
	}
	r.GET("/api/categories", hb.Catalog.CategoryInfo)
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.Authenticate(hb.Verifier, hb.TokenCache))
	{
		// Creation resolves the user itself so body validation is reported first.
		bookings.POST("", hb.Booking.CreateBooking)

		loaded := bookings.Group("")
		loaded.Use(middleware.LoadUser(hb.Users))
		loaded.GET("/customer", hb.Booking.ListCustomerBookings)

		provider := loaded.Group("/provider")
		provider.Use(middleware.RequireRole(models.RoleProvider, models.RoleAdmin))
		provider.GET("", hb.Booking.ListProviderBookings)
		provider.GET("/pending-count", hb.Booking.PendingCount)

		loaded.GET("/:id", hb.Booking.GetBooking)
		loaded.PUT("/:id/status", hb.Booking.UpdateStatus)
		loaded.DELETE("/:id", hb.Booking.CancelBooking)
	}
}

func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reviews := r.Group("/api/reviews")
	{
		reviews.GET("/service/:serviceId", hb.Review.ListByService)
		reviews.GET("/provider/:providerId", hb.Review.ListByProvider)

		authed := reviews.Group("")
		authed.Use(middleware.Authenticate(hb.Verifier, hb.TokenCache), middleware.LoadUser(hb.Users))
		authed.POST("", hb.Review.CreateReview)
		authed.PUT("/:id/response", hb.Review.Respond)
	}
}

// RegisterChatRoutes covers message history, the REST send path and the socket handshake.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	authed := []gin.HandlerFunc{
		middleware.Authenticate(hb.Verifier, hb.TokenCache),
		middleware.LoadUser(hb.Users),
	}

	messages := r.Group("/api/messages")
	messages.Use(authed...)
	{
		messages.GET("/:bookingId", hb.Message.History)
		messages.POST("", hb.Message.Send)
		messages.PUT("/:bookingId/read", hb.Message.MarkRead)
	}

	r.POST("/api/chat/ticket", append(authed, hb.Realtime.IssueTicket)...)
	// Browsers cannot set headers on the upgrade request; the ticket authenticates it.
	r.GET("/ws", hb.Realtime.Connect)
}

func RegisterFavoriteRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	favorites := r.Group("/api/favorites")
	favorites.Use(
		middleware.Authenticate(hb.Verifier, hb.TokenCache),
		middleware.LoadUser(hb.Users),
		middleware.RequireRole(models.RoleCustomer),
	)
	{
		favorites.GET("", hb.Favorite.List)
		favorites.POST("/:serviceId", hb.Favorite.Add)
		favorites.DELETE("/:serviceId", hb.Favorite.Remove)
	}
}

func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	providers := r.Group("/api/providers")
	{
		providers.PUT("/profile",
			middleware.Authenticate(hb.Verifier, hb.TokenCache),
			middleware.LoadUser(hb.Users),
			middleware.RequireRole(models.RoleProvider),
			hb.Provider.UpsertProfile,
		)
		providers.GET("/:uid/profile", hb.Provider.GetProfile)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, corsOrigin string) {
	r.Use(cors.New(corsConfig(corsOrigin)))
	r.Use(middleware.RateLimitMiddleware(hb.RateLimit))

	RegisterHealthRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterFavoriteRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", handlers.IdempotencyHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range strings.Split(origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}
