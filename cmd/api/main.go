package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"atlas/internal/config"
	"atlas/internal/database"
	"atlas/internal/domain"
	"atlas/internal/middleware"
	"atlas/internal/modules/admin"
	"atlas/internal/modules/analytics"
	"atlas/internal/modules/auth"
	"atlas/internal/modules/booking"
	"atlas/internal/modules/catalog"
	"atlas/internal/modules/live"
	"atlas/internal/mq"
	"atlas/internal/pkg/jwt"
	"atlas/internal/pkg/response"
	"atlas/internal/repository"
)

// eventFanout delivers booking transitions to every configured sink:
// the message broker and the websocket hub. Delivery is best effort; a
// broken broker never fails a booking.
type eventFanout struct {
	publisher *mq.Publisher
	hub       *live.Hub
}

func (f *eventFanout) BookingCreated(ctx context.Context, b *domain.Booking) error {
	return f.deliver(ctx, mq.EventBookingCreated, b)
}

func (f *eventFanout) BookingCancelled(ctx context.Context, b *domain.Booking) error {
	return f.deliver(ctx, mq.EventBookingCancelled, b)
}

func (f *eventFanout) BookingRescheduled(ctx context.Context, b *domain.Booking) error {
	return f.deliver(ctx, mq.EventBookingRescheduled, b)
}

func (f *eventFanout) deliver(ctx context.Context, eventType string, b *domain.Booking) error {
	if f.publisher != nil {
		var err error
		switch eventType {
		case mq.EventBookingCreated:
			err = f.publisher.BookingCreated(ctx, b)
		case mq.EventBookingCancelled:
			err = f.publisher.BookingCancelled(ctx, b)
		case mq.EventBookingRescheduled:
			err = f.publisher.BookingRescheduled(ctx, b)
		}
		if err != nil {
			log.Printf("event publish failed: type=%s booking=%d err=%v", eventType, b.ID, err)
		}
	}

	if f.hub != nil {
		f.hub.Broadcast(live.Event{
			Type:        eventType,
			WorkspaceID: b.WorkspaceID,
			BookingID:   b.ID,
			StartTime:   b.StartTime.Format(time.RFC3339),
			EndTime:     b.EndTime.Format(time.RFC3339),
			Status:      string(b.Status),
		})
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	bookingRepo := repository.NewBookingRepository(db, cfg.BookingRetryAttempts)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	userRepo := repository.NewUserRepository(db)

	hub := live.NewHub()
	defer hub.Close()

	fanout := &eventFanout{hub: hub}
	if cfg.AMQPURL != "" {
		publisher, err := mq.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("amqp: %v", err)
		}
		defer publisher.Close()
		fanout.publisher = publisher
	}

	var cache analytics.Cache
	if cfg.RedisAddr != "" {
		cache = analytics.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	bookingService := booking.NewService(bookingRepo, workspaceRepo, fanout, cfg.MaxBookingDuration)
	catalogService := catalog.NewService(workspaceRepo)
	authService := auth.NewService(userRepo, jwtService)
	adminService := admin.NewService(userRepo)
	analyticsService := analytics.NewService(bookingRepo, workspaceRepo, cache, cfg.AnalyticsCacheTTL)

	bookingHandler := booking.NewHandler(bookingService)
	catalogHandler := catalog.NewHandler(catalogService)
	authHandler := auth.NewHandler(authService)
	adminHandler := admin.NewHandler(adminService)
	analyticsHandler := analytics.NewHandler(analyticsService)
	liveHandler := live.NewHandler(hub, jwtService, cfg.WSAllowedOrigin)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), cors.Default())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	authHandler.RegisterPublicRoutes(api)
	liveHandler.RegisterRoutes(api)

	protected := api.Group("/", middleware.Auth(jwtService))
	authHandler.RegisterProtectedRoutes(protected)
	bookingHandler.RegisterRoutes(protected)
	catalogHandler.RegisterReadRoutes(protected)

	catalogAdmin := protected.Group("/", middleware.ManageWorkspaces())
	catalogHandler.RegisterAdminRoutes(catalogAdmin)

	adminGroup := protected.Group("/admin", middleware.ManageUsers())
	adminHandler.RegisterRoutes(adminGroup)

	analyticsGroup := protected.Group("/", middleware.ViewAnalytics())
	analyticsHandler.RegisterRoutes(analyticsGroup)

	log.Printf("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
