package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/shopspring/decimal"

	"github.com/patchwork-body/the-booking-system/internal/auth"
	"github.com/patchwork-body/the-booking-system/internal/config"
	"github.com/patchwork-body/the-booking-system/internal/database"
	"github.com/patchwork-body/the-booking-system/internal/handler"
	"github.com/patchwork-body/the-booking-system/internal/middleware"
	"github.com/patchwork-body/the-booking-system/internal/queue"
	"github.com/patchwork-body/the-booking-system/internal/repository"
	"github.com/patchwork-body/the-booking-system/internal/router"
	queue_publisher "github.com/patchwork-body/the-booking-system/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// Serialize money as plain JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: a nil client disables the response cache and the
	// rate limiter fails open.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	reservations := repository.NewReservationRepo(db)
	chats := repository.NewChatRepo(db)

	api := &router.API{
		Auth: handler.NewAuthHandler(auth.NewService(cfg, users, tokens)),
		Properties: &handler.PropertyHandler{
			Properties:   properties,
			Reservations: reservations,
			Chats:        chats,
			Events:       queue_publisher.Publisher{},
		},
		Reservations:   &handler.ReservationHandler{Reservations: reservations},
		Guests:         &handler.GuestHandler{Reservations: reservations, Chats: chats},
		Chats:          &handler.ChatHandler{Chats: chats},
		PropertyLookup: properties,
		JWTSecret:      cfg.JWTSecret,
	}
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
		api.Cache = middleware.NewRedisCache(cacheCfg, rdb)
	}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, api)
	router.RegisterAuth(e, api.Auth)
	router.RegisterAPI(e, api)

	// Consume reservation.confirmed events in the background; the consumer
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
