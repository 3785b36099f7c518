package main

import (
	"context"
	"log"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/config"
	"github.com/chachabrian/tvdefleet-backend/internal/database"
	"github.com/chachabrian/tvdefleet-backend/internal/handlers"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run(ctx)

	// Redis is optional; without it notifications stay on this instance
	var rdb *redis.Client
	var syncLock services.SyncLock = services.NewLocalSyncLock()
	var live services.Sink = hub
	if cfg.RedisURL != "" {
		rdb, err = services.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		syncLock = services.NewRedisSyncLock(rdb)
		live = &services.RedisPublisher{Client: rdb}
		go services.SubscribeNotifications(ctx, rdb, hub)
	}

	push, err := services.InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
	if err != nil {
		log.Printf("Firebase initialization warning: %v", err)
		push = &services.PushNotifier{}
	}

	sinks := services.Fanout{live, push}
	telegram, err := services.InitTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("Telegram initialization warning: %v", err)
	}
	if telegram != nil {
		sinks = append(sinks, telegram)
	}

	// Initialize Storage (S3 or local fallback)
	storage, err := services.InitStorage(services.StorageConfig{
		AWSRegion:    cfg.AWSRegion,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
		Bucket:       cfg.AWSBucket,
		UploadDir:    cfg.UploadDir,
		BaseURL:      cfg.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	fleet := store.New(
		database.NewSnapshotRepository(db),
		store.WithAdmin(cfg.AdminEmail, cfg.AdminPassword),
		store.WithSink(services.Async(sinks)),
	)
	if err := fleet.Load(ctx); err != nil {
		log.Fatalf("Failed to load fleet data: %v", err)
	}

	go runExpiryMonitor(ctx, fleet, cfg.ExpiryCheckInterval)

	r := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Serve static files
	if !storage.IsUsingS3() {
		r.Static("/uploads", storage.UploadDir())
	}

	handlers.RegisterRoutes(r, handlers.Dependencies{
		Store:     fleet,
		JWTSecret: cfg.JWTSecret,
		Hub:       hub,
		Storage:   storage,
		Mailer:    utils.NewMailer(utils.EmailConfigFromEnv()),
		Push:      push,
		Redis:     rdb,
		Bolt:      services.NewHTTPBoltClient(cfg.BoltTokenURL, cfg.BoltBaseURL, cfg.BoltTimeout),
		SyncLock:  syncLock,
		BoltCreds: services.BoltCredentials{ClientID: cfg.BoltClientID, ClientSecret: cfg.BoltClientSecret},
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// runExpiryMonitor checks document and rental expirations at startup and then
// on every tick.
func runExpiryMonitor(ctx context.Context, fleet *store.Store, interval time.Duration) {
	check := func() {
		found, err := fleet.RunExpirationChecks(ctx, time.Now())
		if err != nil {
			log.Printf("Error running expiration checks: %v", err)
			return
		}
		if len(found) > 0 {
			log.Printf("Expiration checks created %d notifications", len(found))
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
