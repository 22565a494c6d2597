package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/botconsole/internal/api"
	"github.com/ignite/botconsole/internal/config"
	"github.com/ignite/botconsole/internal/message"
	"github.com/ignite/botconsole/internal/pkg/distlock"
	"github.com/ignite/botconsole/internal/pkg/logger"
	"github.com/ignite/botconsole/internal/pkg/timeutil"
	"github.com/ignite/botconsole/internal/repository/postgres"
	"github.com/ignite/botconsole/internal/repository/rediscache"
	"github.com/ignite/botconsole/internal/service/bots"
	"github.com/ignite/botconsole/internal/service/broadcast"
	"github.com/ignite/botconsole/internal/service/flows"
	"github.com/ignite/botconsole/internal/service/questions"
	"github.com/ignite/botconsole/internal/targeting"
	"github.com/ignite/botconsole/internal/worker"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database.url (or DATABASE_URL) is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}
	defer db.Close()

	// Repositories
	botRepo := postgres.NewBotRepo(db)
	flowRepo := postgres.NewFlowRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	broadcastRepo := postgres.NewBroadcastRepo(db)
	userRepo := postgres.NewBotUserRepo(db)

	// Redis is optional: without it the tag directory is uncached and the
	// dispatch lock falls back to a Postgres advisory lock.
	var redisClient *redis.Client
	var tagDir broadcast.TagDirectory = userRepo
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without cache", "error", err.Error())
			redisClient = nil
		} else {
			tagDir = rediscache.NewTagDirectory(userRepo, redisClient, 5*time.Minute)
		}
		cancel()
	}

	// Services
	engine := message.NewEngine()
	resolver := targeting.NewResolver(userRepo)
	loc := timeutil.Location(cfg.Platform.Timezone)
	handlers := api.NewHandlers(
		bots.NewService(botRepo),
		flows.NewService(flowRepo),
		questions.NewService(questionRepo),
		broadcast.NewService(broadcastRepo, tagDir, resolver, engine),
		loc,
	)

	// Dispatch worker
	lock := distlock.NewLock(redisClient, db, "broadcast-dispatch", time.Minute)
	dispatcher := worker.NewDispatcher(
		broadcastRepo, broadcastRepo, userRepo, resolver, engine,
		worker.LogSender{}, lock,
		worker.DispatcherConfig{
			Interval:  time.Duration(cfg.Broadcast.WorkerIntervalSeconds) * time.Second,
			BatchSize: cfg.Broadcast.BatchSize,
		},
	)
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Failed to start dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	server := api.NewServer(cfg.Server, handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		logger.Info("server listening", "addr", addr, "timezone", loc.String())
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err.Error())
	}
}
