package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/patchwork-body/the-booking-system/internal/handler"    // import the handlers that implement business logic
	"github.com/patchwork-body/the-booking-system/internal/middleware" // import middleware for JWT authentication and profile gates
)

// API bundles the handlers and shared middleware the route tables need.
type API struct {
	Auth         *handler.AuthHandler
	Properties   *handler.PropertyHandler
	Reservations *handler.ReservationHandler
	Guests       *handler.GuestHandler
	Chats        *handler.ChatHandler

	// PropertyLookup backs the owner gate's existence and ownership checks.
	PropertyLookup middleware.PropertyStore
	// JWTSecret verifies access tokens on protected routes.
	JWTSecret string
	// Cache, when non-nil, wraps the public property listing in the Redis
	// response cache.
	Cache echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  It exposes the health check and the public
// property listing, the only browse endpoint guests can hit before signing
// up.
func RegisterRoutes(e *echo.Echo, api *API) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)

	// The property listing is public and paginated; it is the hottest read
	// in the system, so the Redis response cache sits in front of it when
	// configured.
	if api.Cache != nil {
		e.GET("/v1/properties", api.Properties.List, api.Cache)
	} else {
		e.GET("/v1/properties", api.Properties.List)
	}
}

// RegisterAuth registers all authentication-related routes.  Each operation
// lives under /v1/auth and requires no session: register issues the one-time
// secret, login exchanges it for a token pair, refresh mints a new access
// token, and revoke invalidates the session's refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to issue a new access token without rotating
	// the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to invalidate a session by deleting its token
	// row.  Revoking an unknown token still returns 204.
	g.POST("/revoke", a.Revoke)
}

// RegisterAPI registers every protected route.  All of them pass the bearer
// gate first; owner- and guest-only routes additionally pass the matching
// profile gate, with the certain variants pinning the :id path parameter to
// a resource the caller actually controls.
func RegisterAPI(e *echo.Echo, api *API) {
	authd := middleware.Authorized(api.JWTSecret)
	owner := middleware.IsOwner(api.PropertyLookup, middleware.OwnerOptions{})
	ownerCertain := middleware.IsOwner(api.PropertyLookup, middleware.OwnerOptions{Certain: true})
	guest := middleware.IsGuest(middleware.GuestOptions{})
	guestCertain := middleware.IsGuest(middleware.GuestOptions{Certain: true})

	v1 := e.Group("/v1", authd)

	// Property management.  Creating a listing only needs an owner profile;
	// mutating or inspecting an existing one needs ownership of that exact
	// property.
	v1.POST("/properties", api.Properties.Create, owner)
	v1.GET("/properties/:id", api.Properties.ByID)
	v1.PATCH("/properties/:id", api.Properties.Update, ownerCertain)
	v1.DELETE("/properties/:id", api.Properties.Delete, ownerCertain)
	v1.GET("/properties/:id/owner", api.Properties.Owner)
	v1.GET("/properties/:id/reservations", api.Properties.ListReservations, ownerCertain)
	v1.GET("/properties/:id/chats", api.Properties.ListChats, ownerCertain)

	// Booking.  Any guest profile may reserve any property; reading a single
	// reservation is checked in the handler against both sides of it.
	v1.POST("/properties/:id/reservations", api.Properties.Reserve, guest)
	v1.GET("/reservations/:id", api.Reservations.ByID)

	// Guest-scoped listings.  The certain guest gate rejects callers probing
	// another guest's id before the handler ever runs.
	v1.GET("/guests/:id/reservations", api.Guests.ListReservations, guestCertain)
	v1.GET("/guests/:id/chats", api.Guests.ListChats, guestCertain)

	// Chat.  Participation is checked per chat inside the handler since both
	// owners and guests share these routes.
	v1.GET("/chats/:id/messages", api.Chats.Messages)
	v1.POST("/chats/:id/messages", api.Chats.PostMessage)
}
