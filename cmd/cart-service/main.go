package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/claudiojara/cart-service/internal/cache"
	"github.com/claudiojara/cart-service/internal/catalog"
	"github.com/claudiojara/cart-service/internal/events"
	h "github.com/claudiojara/cart-service/internal/http"
	"github.com/claudiojara/cart-service/internal/identity"
	"github.com/claudiojara/cart-service/internal/orders"
	"github.com/claudiojara/cart-service/internal/projector"
	"github.com/claudiojara/cart-service/internal/repository"
	"github.com/claudiojara/cart-service/internal/service"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Currency string `envconfig:"CURRENCY" default:"CLP"`

	// Empty MongoURI selects the in-memory cart store.
	MongoURI    string `envconfig:"MONGO_URI"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"cartdb"`

	// Empty RedisAddr disables the snapshot cache.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// Empty CatalogURL selects the embedded fixture catalog.
	CatalogURL     string        `envconfig:"CATALOG_URL"`
	CatalogTimeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"5s"`

	// Empty KafkaBrokers disables order-completed events.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`

	// Empty PostgresHost selects the in-memory order history.
	PostgresHost     string `envconfig:"POSTGRES_HOST"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PostgresDBName   string `envconfig:"POSTGRES_DB" default:"ordersdb"`
	MigrationsPath   string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	// Pre-shared session for local development.
	DevSessionToken string `envconfig:"DEV_SESSION_TOKEN"`
	DevUserID       string `envconfig:"DEV_USER_ID" default:"dev-user"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx := context.Background()

	// Cart store
	var repo repository.CartRepository
	if cfg.MongoURI != "" {
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MongoDB")
		}
		defer mongoDB.Client().Disconnect(ctx) //nolint:errcheck
		mongoRepo := repository.NewMongoRepository(mongoDB)
		if err := mongoRepo.CreateIndexes(ctx); err != nil {
			log.WithError(err).Fatal("failed to create MongoDB indexes")
		}
		repo = mongoRepo
		log.WithField("uri", cfg.MongoURI).Info("connected to MongoDB")
	} else {
		repo = repository.NewMemoryRepository()
		log.Info("using in-memory cart store")
	}

	// Snapshot cache
	var cartCache cache.CartCache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("Redis connection failed")
		}
		cartCache = cache.NewRedisCache(redisClient)
		log.WithField("addr", cfg.RedisAddr).Info("connected to Redis")
	}

	// Catalog lookup
	var lookup catalog.Lookup
	if cfg.CatalogURL != "" {
		lookup = catalog.NewHTTPCatalog(cfg.CatalogURL, cfg.CatalogTimeout)
		log.WithField("url", cfg.CatalogURL).Info("using remote product catalog")
	} else {
		fixture, err := catalog.NewFixtureCatalog()
		if err != nil {
			log.WithError(err).Fatal("failed to load product fixture")
		}
		lookup = fixture
		log.Info("using embedded product catalog")
	}

	// Order history
	var orderRepo orders.OrderRepository
	if cfg.PostgresHost != "" {
		cred := &orders.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPassword,
			DBName:            cfg.PostgresDBName,
			MigrationsDirPath: cfg.MigrationsPath,
		}
		pg, err := orders.NewPostgresRepository(cred)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Postgres")
		}
		defer pg.Close()
		if err := pg.RunMigrations(cred); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		orderRepo = pg
		log.WithField("host", cfg.PostgresHost).Info("connected to Postgres")
	} else {
		orderRepo = orders.NewMemoryRepository()
		log.Info("using in-memory order history")
	}

	// Order events
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing order events to Kafka")
	}

	// Identity
	sessions := identity.NewMemorySessions()
	if cfg.DevSessionToken != "" {
		sessions.Seed(cfg.DevSessionToken, cfg.DevUserID)
		log.WithField("user_id", cfg.DevUserID).Warn("seeded development session token")
	}

	proj := projector.New(cfg.Currency)
	svc := service.NewCartService(repo, lookup, cartCache, orderRepo, publisher, proj, log)

	cartHandler := h.NewCartHandler(svc, cfg.RequestTimeout, log)
	checkoutHandler := h.NewCheckoutHandler(svc, cfg.RequestTimeout, log)
	ordersHandler := h.NewOrdersHandler(svc, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(lookup, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(h.RequestIDMiddleware)

	r.Get("/products", productHandler.ListProducts)
	r.Get("/products/{id}", productHandler.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware(sessions))

		r.Post("/cart/items", cartHandler.AddItem)
		r.Get("/cart/items", cartHandler.ListItems)
		r.Patch("/cart/items/{product_id}", cartHandler.UpdateQuantity)
		r.Delete("/cart/items/{product_id}", cartHandler.RemoveItem)
		r.Delete("/cart/items", cartHandler.ClearCart)
		r.Get("/cart/summary", cartHandler.Summary)

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/orders", ordersHandler.ListOrders)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(r, "cart-service"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("cart service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
