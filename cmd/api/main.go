package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/auction-service/internal/config"
	"github.com/auction-service/internal/events"
	handler "github.com/auction-service/internal/http"
	"github.com/auction-service/internal/images"
	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/payment"
	"github.com/auction-service/internal/repo"
	"github.com/auction-service/internal/service"
	"github.com/auction-service/internal/sms"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := repo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		log.Fatal("failed to connect to mongo", zap.Error(err))
	}
	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}
	log.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal("invalid redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	log.Info("connected to redis")

	hub := events.NewHub(log, cfg.CORS.Origins)
	consumer := events.NewConsumer(redisClient, hub, log)
	go func() {
		if err := consumer.Subscribe(ctx, events.Channel); err != nil {
			log.Error("event consumer stopped", zap.Error(err))
		}
	}()

	imageStore, err := images.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatal("failed to init image store", zap.Error(err))
	}

	users := repo.NewMongoUserRepository(db.Collection(repo.UsersCollection))
	products := repo.NewMongoProductRepository(db.Collection(repo.ProductsCollection))
	orders := repo.NewMongoOrderRepository(db.Collection(repo.OrdersCollection))
	publisher := events.NewRedisPublisher(redisClient)

	h := handler.NewHandler(handler.Deps{
		Users:    service.NewUserService(users, orders),
		Products: service.NewProductService(products, users),
		Carts:    service.NewCartService(users),
		Orders:   service.NewOrderService(orders, users, publisher),
		Payments: service.NewPaymentService(payment.NewStripeProvider(cfg.Stripe.Secret), cfg.Stripe.Currency),
		Bids: service.NewBidService(users,
			sms.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From),
			cfg.Twilio.CountryPrefix),
		Images:   imageStore,
		Realtime: hub,
		Health: []handler.HealthCheck{
			{Name: "mongo", Check: func(ctx context.Context) error {
				return mongoClient.Ping(ctx, readpref.Primary())
			}},
			{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		},
	})

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log), corsMiddleware(cfg.CORS.Origins))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	hub.Close()

	if err := redisClient.Close(); err != nil {
		log.Error("error closing redis connection", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("error closing mongo connection", zap.Error(err))
	}

	log.Info("server exiting")
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", logger.RequestIDHeader)
	cfg.ExposeHeaders = []string{logger.RequestIDHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
