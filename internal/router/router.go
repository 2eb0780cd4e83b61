package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/hoangtv/cinebook-flow/internal/config"
	"github.com/hoangtv/cinebook-flow/internal/handler"
	"github.com/hoangtv/cinebook-flow/internal/middleware"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, store *session.Store) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and to watch the live-session count.
	e.GET("/healthz", handler.Health(store))
}

// RegisterBrowse registers the unauthenticated catalog proxy endpoints.
// These are read-only, safe for guests, and sit behind the Redis
// response cache and the token-bucket rate limiter when a Redis client
// is available (both middlewares no-op on a nil client).
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	// Showtimes of a movie grouped by date for the date picker.
	g.GET("/movies/:id/showtimes", b.ListShowtimes)
	// Seat map of a room; pass ?showtimeId= to merge in the status feed.
	g.GET("/rooms/:id/seats", b.ListRoomSeats)
	// Concession catalog for the food step.
	g.GET("/food", b.ListFood)
}

// RegisterSessions registers the reservation-session endpoints under
// /v1/sessions.  All routes require a valid bearer token; a session is
// only addressable by the user who created it.
func RegisterSessions(e *echo.Echo, s *handler.SessionHandler, jwtSecret string) {
	g := e.Group("/v1/sessions", middleware.JWTAuth(jwtSecret))
	g.POST("", s.Create)
	g.GET("/:id", s.Get)
	g.PUT("/:id/showtime", s.SelectShowtime)
	g.POST("/:id/seats/toggle", s.ToggleSeat)
	g.POST("/:id/food", s.SetFood)
	g.POST("/:id/discount", s.ApplyDiscount)
	g.DELETE("/:id/discount", s.RemoveDiscount)
	g.POST("/:id/review", s.EnterReview)
	g.POST("/:id/app-state", s.AppState)
}

// RegisterCheckout registers submission, payment follow-up, history and
// contact endpoints.  All require a valid bearer token.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/sessions/:id/confirm", h.Confirm)
	g.POST("/payment/confirm", h.CompletePayment)
	g.GET("/history", h.ListHistory)
	g.GET("/profile/contact", h.GetContact)
	g.PUT("/profile/contact", h.UpdateContact)
}
