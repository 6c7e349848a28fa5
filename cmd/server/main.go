package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nvalverde/boutique/internal/adapter/handler"
	"github.com/nvalverde/boutique/internal/adapter/storage"
	"github.com/nvalverde/boutique/internal/config"
	"github.com/nvalverde/boutique/internal/core/domain"
	"github.com/nvalverde/boutique/internal/core/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to connect mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	// Initialize adapters
	redisAdapter := storage.NewRedisAdapter(rdb)
	mysqlAdapter := storage.NewMySQLAdapter(db)

	// Initialize services
	catalogService := service.NewCatalogService(mysqlAdapter, logger)
	cartService := service.NewCartService(mysqlAdapter, redisAdapter, logger)
	orderService := service.NewOrderService(mysqlAdapter, redisAdapter, redisAdapter, cfg.QueueSize, logger)

	// Start notifier workers draining order events
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			notifierLoop(id, orderService.Events(), logger)
		}(i)
	}
	logger.Info("started notifier workers", zap.Int("count", cfg.WorkerCount))

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(catalogService, cartService, orderService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	// Close event queue and wait for workers
	orderService.Close()
	wg.Wait()
	logger.Info("workers stopped")

	// Close connections
	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}

// notifierLoop stands in for realtime push to storefront and admin
// clients; each event is currently just logged.
// TODO: publish events to the websocket gateway once it exists.
func notifierLoop(id int, events <-chan domain.OrderEvent, logger *zap.Logger) {
	for ev := range events {
		logger.Info("order event",
			zap.Int("worker", id),
			zap.String("order_id", ev.OrderID),
			zap.String("user_id", ev.UserID),
			zap.String("status", string(ev.Status)),
		)
	}
}
