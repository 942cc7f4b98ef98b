// File: hausly/handlers/bundle.go
package handlers

import (
	"hausly/middleware"
)

// HandlerBundle groups all endpoint handlers and the auth dependencies the routes need.
type HandlerBundle struct {
	Verifier   middleware.IdentityVerifier
	TokenCache middleware.TokenCache
	Users      middleware.UserLookup
	RateLimit  int

	User     *UserHandler
	Admin    *AdminHandler
	Catalog  *CatalogHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
	Message  *MessageHandler
	Favorite *FavoriteHandler
	Provider *ProviderHandler
	Realtime *RealtimeHandler
	Health   *HealthHandler
}
