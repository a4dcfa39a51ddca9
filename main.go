package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportsstore/controllers"
	"sportsstore/database"
	"sportsstore/events"
	"sportsstore/logger"
	"sportsstore/middleware"
	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/routes"
	"sportsstore/services"

	aws_pkg "sportsstore/pkg/aws"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log, err := logger.Initialize(getEnv("APP_ENV", "development"))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	var closers []func() error

	// --- 1. AWS ---
	var awsCfg sdkaws.Config
	if cfg.UsesAWS() {
		awsCfg, err = aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
	}
	var metricsClient *aws_pkg.MetricsClient
	if cfg.CloudWatchEnabled {
		metricsClient = aws_pkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, true)
	}

	// --- 2. Stores ---
	products, receipts, closeStore, err := newProductStore(ctx, cfg, awsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize catalog store", zap.String("backend", cfg.CatalogBackend), zap.Error(err))
	}
	closers = append(closers, closeStore)

	carts, closeCarts := newCartStore(ctx, cfg, log)
	closers = append(closers, closeCarts)

	// --- 3. Order processing ---
	var putter aws_pkg.ObjectPutter
	if cfg.UsesAWS() {
		putter = aws_pkg.NewS3Client(awsCfg)
	}
	emailSender, err := services.NewEmailSender(cfg.Email, putter)
	if err != nil {
		log.Fatal("Failed to initialize order email transport", zap.Error(err))
	}

	publisher, closePublishers := newPublisher(cfg, awsCfg, log)
	closers = append(closers, closePublishers...)

	// a nil *MetricsClient must not reach the interface as a typed nil
	var metrics services.MetricsRecorder
	if metricsClient.IsEnabled() {
		metrics = metricsClient
	}

	processor := services.NewEmailOrderProcessor(cfg.Email, emailSender, receipts, publisher, metrics, log)

	// --- 4. Dependency Injection ---
	checkoutService := services.NewCheckoutService(processor, log)
	cartService := services.NewCartService(products, checkoutService, log)
	adminService := services.NewAdminService(products, receipts, metrics, log)
	catalogService := services.NewCatalogService(products, cfg.PageSize)

	catalogController := controllers.NewCatalogController(catalogService)
	cartController := controllers.NewCartController(cartService, carts, log)
	adminController := controllers.NewAdminController(adminService)

	// --- 5. HTTP Server & Middleware ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Metrics(metricsClient, "sportsstore"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, 50))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(middleware.ErrorHandler(log))

	routes.RegisterCatalogRoutes(r, catalogController)
	routes.RegisterCartRoutes(r, cartController, cfg.SessionCookie)
	routes.RegisterAdminRoutes(r, adminController, cfg.JWTSecret, cfg.TrustGatewayHeaders)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "catalog": cfg.CatalogBackend})
	})

	// --- 6. Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("SportsStore starting",
			zap.String("port", cfg.Port),
			zap.String("catalog", cfg.CatalogBackend),
			zap.Bool("write_as_file", cfg.Email.WriteAsFile),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down SportsStore...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Error("Failed to release resource", zap.Error(err))
		}
	}
	log.Info("SportsStore stopped gracefully")
}

func noopClose() error { return nil }

// newProductStore opens the catalog selected by CATALOG_BACKEND. Receipts are
// only kept when a relational database is available.
func newProductStore(ctx context.Context, cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) (repository.ProductRepository, repository.ReceiptRepository, func() error, error) {
	switch cfg.CatalogBackend {
	case BackendPostgres:
		db, err := database.ConnectPostgres(cfg.Postgres, log, &models.Product{}, &models.OrderReceipt{})
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewGormProductRepository(db), repository.NewGormReceiptRepository(db), func() error { return database.Close(db) }, nil

	case BackendDynamoDB:
		client := aws_pkg.NewDynamoDBClient(awsCfg)
		log.Info("Using DynamoDB catalog", zap.String("table", cfg.DynamoTable))
		return repository.NewDynamoProductRepository(client, cfg.DynamoTable), nil, noopClose, nil

	case BackendMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("Connected to MongoDB", zap.String("db", cfg.MongoDB))
		closeFn := func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(closeCtx)
		}
		return repository.NewMongoProductRepository(client.Database(cfg.MongoDB)), nil, closeFn, nil

	case BackendMemory:
		log.Warn("Using in-memory demo catalog; changes are lost on restart")
		return repository.NewMemoryProductRepository(repository.DemoProducts()...), nil, noopClose, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
}

// newCartStore keeps carts in Redis when REDIS_URL is set and reachable,
// and in memory otherwise.
func newCartStore(ctx context.Context, cfg *Config, log *zap.Logger) (repository.CartRepository, func() error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, session carts kept in memory")
		return repository.NewMemoryCartRepository(), noopClose
	}
	client, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("Redis unavailable, session carts kept in memory", zap.Error(err))
		return repository.NewMemoryCartRepository(), noopClose
	}
	return repository.NewRedisCartRepository(client, cfg.CartTTL), client.Close
}

// newPublisher builds the fan-out of configured order event sinks. It
// returns nil when none are configured. A broker that cannot be reached at
// startup is skipped so checkout keeps working without its events.
func newPublisher(cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) (events.Publisher, []func() error) {
	var (
		fanout  events.Fanout
		closers []func() error
	)
	for _, name := range cfg.EventPublishers {
		switch name {
		case "kafka":
			kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrdersTopic)
			fanout = append(fanout, kp)
			closers = append(closers, kp.Close)
		case "sns":
			fanout = append(fanout, events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.OrderSNSTopicArn))
		case "sqs":
			fanout = append(fanout, events.NewSQSPublisher(aws_pkg.NewSQSClient(awsCfg, cfg.OrderSQSQueueURL)))
		case "rabbitmq":
			rp, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQOrdersQueue, 4)
			if err != nil {
				log.Error("RabbitMQ unavailable, order events not sent there", zap.Error(err))
				continue
			}
			fanout = append(fanout, rp)
			closers = append(closers, rp.Close)
		default:
			log.Warn("Unknown event publisher, skipped", zap.String("publisher", name))
			continue
		}
		log.Info("Order events enabled", zap.String("publisher", name))
	}
	if len(fanout) == 0 {
		return nil, closers
	}
	return fanout, closers
}
