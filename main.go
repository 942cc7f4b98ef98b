package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hausly/config"
	"hausly/cron"
	"hausly/database"
	"hausly/database/repository"
	"hausly/handlers"
	"hausly/middleware"
	"hausly/models"
	"hausly/realtime"
	"hausly/routes"
	"hausly/services/admin"
	"hausly/services/booking"
	"hausly/services/catalog"
	"hausly/services/chat"
	"hausly/services/favorite"
	"hausly/services/notification"
	"hausly/services/provider"
	"hausly/services/review"
	"hausly/services/user"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const categoryCacheTTL = 10 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	if err := utils.RegisterValidators(models.IsValidCategory); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	useTransactions := cfg.MongoTransactions && database.SupportsTransactions(rootCtx)
	if cfg.MongoTransactions && !useTransactions {
		logger.Warn("main: MONGO_TRANSACTIONS set but deployment is standalone; booking writes fall back to re-check then insert")
	}

	// repositories.
	repos := repository.NewMongoRepositories(useTransactions)

	// background queue.
	queueOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queue := asynq.NewClient(queueOpt)
	defer queue.Close()

	// services.
	userService := user.NewDefaultUserService(repos.Users)
	adminService := &admin.DefaultAdminService{Users: repos.Users, Logger: logger}
	providerService := &provider.DefaultProviderService{Repo: repos.Profiles}

	catalogService := catalog.NewDefaultCatalogService(
		repos.Services,
		repos.Categories,
		catalog.NewRedisCategoryCache(utils.GetCacheClient(), categoryCacheTTL),
		logger,
	)
	seedCtx, seedCancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := catalogService.EnsureDefaultCategories(seedCtx); err != nil {
		logger.Warn("main: failed to seed default categories", zap.Error(err))
	}
	seedCancel()

	notificationService, err := notification.NewDefaultNotificationService(repos.Users, utils.FCMClient, logger)
	if err != nil {
		logger.Fatal("main: notification service", zap.Error(err))
	}

	bookingService := &booking.DefaultBookingService{
		Users:       repos.Users,
		Services:    repos.Services,
		Repo:        repos.Bookings,
		Idempotency: booking.NewRedisIdempotencyStore(utils.GetCacheClient(), cfg.IdempotencyTTL),
		Dispatcher:  notification.NewAsynqDispatcher(queue, cfg.ReminderLead, time.Local),
		Logger:      logger,
	}

	reviewService := &review.DefaultReviewService{
		Repo:     repos.Reviews,
		Bookings: repos.Bookings,
		Ratings:  repos.Services,
		Logger:   logger,
	}
	favoriteService := &favorite.DefaultFavoriteService{Repo: repos.Favorites, Services: repos.Services}

	messageService := &chat.DefaultMessageService{
		Repo:     repos.Messages,
		Bookings: repos.Bookings,
		Logger:   logger,
	}
	hub := realtime.NewHub(messageService, utils.GetCacheClient(), logger)
	messageService.Broadcaster = hub
	go hub.Run(rootCtx)

	// workers.
	worker := cron.StartWorker(queueOpt, &cron.Worker{
		Notifier: notificationService,
		Bookings: repos.Bookings,
		Logger:   logger,
	})
	reconciler, err := cron.StartRatingReconciler(cfg.RatingReconcileCron, reviewService, logger)
	if err != nil {
		logger.Fatal("main: rating reconciler", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, []*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// handlers.
	handlerBundle := &handlers.HandlerBundle{
		Verifier:   &middleware.FirebaseVerifier{Client: utils.FirebaseAuth},
		TokenCache: &middleware.RedisTokenCache{Client: utils.GetAuthCacheClient()},
		Users:      repos.Users,
		RateLimit:  cfg.MaxRequestsPerMin,

		User:     handlers.NewUserHandler(userService, logger),
		Admin:    handlers.NewAdminHandler(adminService),
		Catalog:  handlers.NewCatalogHandler(catalogService, logger),
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Review:   handlers.NewReviewHandler(reviewService),
		Message:  handlers.NewMessageHandler(messageService),
		Favorite: handlers.NewFavoriteHandler(favoriteService),
		Provider: handlers.NewProviderHandler(providerService),
		Realtime: handlers.NewRealtimeHandler(
			hub,
			realtime.NewTicketIssuer(cfg.SocketTicketSecret, cfg.SocketTicketTTL),
			repos.Users,
			cfg.CORSOrigin,
			logger,
		),
		Health: &handlers.HealthHandler{},
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLogger(logger))
	router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	stop()
	<-reconciler.Stop().Done()
	worker.Shutdown()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
