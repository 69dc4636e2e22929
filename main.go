package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sohan0019/PlantNet/config"
	"github.com/sohan0019/PlantNet/controllers"
	"github.com/sohan0019/PlantNet/database"
	"github.com/sohan0019/PlantNet/kafka"
	"github.com/sohan0019/PlantNet/logger"
	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/repository"
	"github.com/sohan0019/PlantNet/routes"
	"github.com/sohan0019/PlantNet/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.Initialize(cfg.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	client, db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Close(client); err != nil {
			zlog.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		cancel()
		zlog.Fatal("Failed to create indexes", zap.Error(err))
	}
	cancel()

	plantRepo := repository.NewMongoPlantRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	sellerRequestRepo := repository.NewMongoSellerRequestRepository(db)

	var cache *controllers.CacheManager
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Warn("Failed to parse REDIS_URL, caching disabled", zap.Error(err))
		} else {
			cache = controllers.NewCacheManager(redis.NewClient(redisOpts), zlog)
		}
	}

	var publisher services.EventPublisher
	var producer *kafka.OrderEventProducer
	if cfg.KafkaBrokers != "" {
		producer = kafka.NewOrderEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaOrderTopic, zlog)
		publisher = producer
		defer producer.Close()
	}

	gateway := services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.ClientURL)
	checkoutSvc := services.NewCheckoutService(plantRepo, orderRepo, gateway, publisher, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zlog))
	r.Use(middleware.RateLimitMiddleware())

	routes.Register(r, routes.Controllers{
		Plants:   &controllers.PlantController{Plants: plantRepo, Users: userRepo, Cache: cache, Logger: zlog},
		Orders:   &controllers.OrderController{Orders: orderRepo, Logger: zlog},
		Checkout: &controllers.CheckoutController{Service: checkoutSvc, Gateway: gateway, Cache: cache, Logger: zlog},
		Users:    &controllers.UserController{Users: userRepo, SellerRequests: sellerRequestRepo, Logger: zlog},
		Roles:    userRepo,
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zlog.Info("Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
