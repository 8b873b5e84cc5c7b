package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"plantshop/internal/config"
	"plantshop/internal/db"
	"plantshop/internal/domain"
	"plantshop/internal/events"
	"plantshop/internal/httpserver"
	"plantshop/internal/logging"
	categoryrepo "plantshop/internal/repository/category"
	orderrepo "plantshop/internal/repository/order"
	productrepo "plantshop/internal/repository/product"
	tokenrepo "plantshop/internal/repository/token"
	userrepo "plantshop/internal/repository/user"
	adminsvc "plantshop/internal/service/admin"
	catalogsvc "plantshop/internal/service/catalog"
	identitysvc "plantshop/internal/service/identity"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(productRepo, categoryRepo)
	identityService := identitysvc.New(userRepo, tokenRepo)
	adminService := adminsvc.New(productRepo, categoryRepo, orderRepo, userRepo)

	var sessions httpserver.SessionStores
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		sessions = httpserver.NewRedisSessions(redisClient)
	} else {
		dir := cfg.CartDataDir
		if dir == "" {
			dir = "data/carts"
		}
		logger.Infow("redis not configured, using file-backed carts", "dir", dir)
		sessions = httpserver.NewFileSessions(dir)
	}

	orderCount, err := orderRepo.Count(ctx)
	if err != nil {
		logger.Fatalf("count orders: %v", err)
	}
	counter := httpserver.NewOrderCounter(orderCount)

	publisher, err := events.NewRabbitPublisher(cfg.AMQPURL, logger)
	if err != nil {
		logger.Fatalf("connect to rabbitmq: %v", err)
	}
	defer publisher.Close()

	relay := events.NewRelay(dbpool, publisher, logger)
	go relay.Run(ctx)

	feed := events.NewOrderFeed(logger)
	feed.Subscribe(func(events.OrderEvent) { counter.Inc() })
	deliveries, err := publisher.Consume()
	if err != nil {
		logger.Fatalf("consume orders queue: %v", err)
	}
	go feed.Run(ctx, deliveries)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:        catalogService,
		Identity:       identityService,
		Admin:          adminService,
		Orders:         orderSink{repo: orderRepo},
		Sessions:       sessions,
		Counter:        counter,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}

// orderSink adapts the order repository to the cart's checkout contract.
type orderSink struct {
	repo orderrepo.Repository
}

func (s orderSink) CreateOrder(ctx context.Context, order domain.Order) (string, error) {
	return s.repo.Create(ctx, order)
}
