package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/school-seat-booking/internal/booking"    // Seat allocation engine
	"github.com/iliyamo/school-seat-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/school-seat-booking/internal/database"   // MySQL connection pool
	"github.com/iliyamo/school-seat-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/school-seat-booking/internal/middleware" // Rate limit and cache middleware
	"github.com/iliyamo/school-seat-booking/internal/queue"      // seat.booked consumer
	"github.com/iliyamo/school-seat-booking/internal/repository" // MySQL repositories
	"github.com/iliyamo/school-seat-booking/internal/router"     // Internal router setup
)

func main() {
	// Load a local .env when present; in production the environment
	// is provided by the deployment and the file simply does not exist.
	_ = godotenv.Load()

	cfg := config.Load()                  // Load environment config
	seating := config.LoadSeatingConfig() // Layout and partition settings

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	seatRepo := repository.NewSeatRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	adminRepo := repository.NewAdminRepo(db)

	engine := booking.NewEngine(
		seatRepo,
		studentRepo,
		sessionRepo,
		booking.GenderPartition(seating.LeftGender),
		booking.Layout{TotalSeats: seating.TotalSeats, RowWidth: seating.RowWidth},
	)

	authHandler := handler.NewAuthHandler(cfg, studentRepo, adminRepo)
	seatHandler := handler.NewSeatHandler(engine)
	adminSeatHandler := handler.NewAdminSeatHandler(engine)
	sessionHandler := handler.NewSessionHandler(sessionRepo)

	e := echo.New() // Create Echo instance

	// Redis backs both the rate limiter and the seat-listing cache.
	// Either middleware degrades gracefully when Redis is down, so a
	// nil client only disables them.
	rdb := config.NewRedisClient()
	rl := config.LoadRateLimitConfig()
	if rl.Enabled && rdb != nil {
		e.Use(middleware.NewTokenBucket(rl, rdb))
	}
	var cacheSeats echo.MiddlewareFunc
	cc := config.LoadCacheConfig()
	if cc.Enabled && rdb != nil {
		cacheSeats = middleware.NewRedisCache(cc, rdb)
	}

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authHandler)
	router.RegisterStudent(e, seatHandler, sessionHandler, cfg.JWTSecret, cacheSeats)
	router.RegisterAdmin(e, adminSeatHandler, sessionHandler, cfg.JWTSecret)

	// The consumer reconnects forever in the background; a broker
	// outage never blocks HTTP startup.
	go func() {
		if err := queue.StartSeatBookedConsumer(); err != nil {
			log.Printf("seat-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
