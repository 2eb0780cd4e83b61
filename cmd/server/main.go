package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/hoangtv/cinebook-flow/internal/backend"
	"github.com/hoangtv/cinebook-flow/internal/booking"
	"github.com/hoangtv/cinebook-flow/internal/config"
	"github.com/hoangtv/cinebook-flow/internal/database"
	"github.com/hoangtv/cinebook-flow/internal/handler"
	"github.com/hoangtv/cinebook-flow/internal/inventory"
	"github.com/hoangtv/cinebook-flow/internal/queue"
	"github.com/hoangtv/cinebook-flow/internal/repository"
	"github.com/hoangtv/cinebook-flow/internal/router"
	queue_publisher "github.com/hoangtv/cinebook-flow/internal/service"
	"github.com/hoangtv/cinebook-flow/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middleware degrades

	api := backend.New(cfg.BackendBaseURL, backend.ContextToken{})
	loader := inventory.NewLoader(api)
	store := session.NewStore()
	submitter := booking.NewSubmitter(api)
	contacts := repository.NewContactRepo(db)
	history := repository.NewHistoryRepo(db)

	e := echo.New()
	e.Validator = handler.NewValidator()

	router.RegisterRoutes(e, store)
	router.RegisterBrowse(e, handler.NewBrowseHandler(api, loader), rdb)
	router.RegisterSessions(e, handler.NewSessionHandler(store, loader, api, cfg.ReviewWindow), cfg.JWTSecret)
	router.RegisterCheckout(e, handler.NewCheckoutHandler(
		store, api, loader, submitter, history, contacts,
		queue_publisher.PublishBookingConfirmed,
	), cfg.JWTSecret)

	// Background consumer that appends booking.confirmed events to
	// logs/booking.log; it reconnects on broker failures forever.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
