package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/connectfour/internal/config"
	"github.com/iamasit07/connectfour/internal/repository/postgres"
	"github.com/iamasit07/connectfour/internal/repository/redis"
	"github.com/iamasit07/connectfour/internal/service/cleanup"
	"github.com/iamasit07/connectfour/internal/service/game"
	transportHttp "github.com/iamasit07/connectfour/internal/transport/http"
	"github.com/iamasit07/connectfour/internal/transport/http/middleware"
	"github.com/iamasit07/connectfour/internal/transport/websocket"
	"github.com/iamasit07/connectfour/pkg/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence, both optional
	opts := game.Options{
		FinishedTTL: cfg.FinishedSessionTTL,
		IdleTTL:     cfg.IdleSessionTTL,
	}

	var history transportHttp.HistoryStore
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, game history disabled")
	} else {
		db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		gameRepo := postgres.NewGameRepo(db)
		opts.Repo = gameRepo
		history = gameRepo
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	redisClient, err := redis.Connect(pingCtx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	cancelPing()
	if err != nil {
		log.Printf("Redis disabled, sessions live in memory only: %v", err)
	} else {
		defer redisClient.Close()
		opts.Cache = redis.NewSnapshotCache(redisClient, cfg.SnapshotTTL)
	}

	// 2. Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SeatTokenTTL)
	hub := websocket.NewHub()
	opts.Notifier = hub
	manager := game.NewManager(issuer, opts)

	cleanupWorker := cleanup.NewWorker(manager, cfg.CleanupInterval)
	go cleanupWorker.Start(ctx)

	// 3. Transport
	wsHandler := websocket.NewHandler(hub, manager, issuer, middleware.OriginChecker(cfg.AllowedOrigins))
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Games:          transportHttp.NewGameHandler(manager, issuer, cfg.FrontendURL),
		History:        transportHttp.NewHistoryHandler(history),
		WebSocket:      wsHandler.HandleWebSocket,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// pending history writes
	manager.Wait()
	log.Println("Server exited gracefully")
}
