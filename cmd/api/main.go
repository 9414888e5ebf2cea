package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"loklagbe/internal/adapter/api"
	"loklagbe/internal/adapter/api/handler"
	apimiddleware "loklagbe/internal/adapter/api/middleware"
	"loklagbe/internal/adapter/api/router"
	"loklagbe/internal/adapter/repository"
	"loklagbe/internal/domain/service"
	"loklagbe/internal/infrastructure/cache"
	"loklagbe/internal/infrastructure/firebase"
	"loklagbe/internal/infrastructure/ratelimit"
	"loklagbe/internal/infrastructure/storage"
	"loklagbe/internal/usecase"
	"loklagbe/pkg/config"
	"loklagbe/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opt option.ClientOption
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	} else {
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			logger.Fatal("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.ServiceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.Fatal("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	// The sign-in endpoints authenticate with the web API key, not the
	// service account.
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.FirebaseApiKey))
	if err != nil {
		logger.Fatal("Failed to initialize Identity Toolkit: %v", err)
	}

	var files service.FileUploadService
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
		if err != nil {
			logger.Fatal("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		files = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET is not set, image uploads are disabled")
	}

	var appCache usecase.Cache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis at %s is unreachable, continuing without cache: %v", cfg.RedisAddr, err)
		} else {
			logger.Info("Using Redis cache at %s", cfg.RedisAddr)
			appCache = cache.NewRedisCache(rdb, "loklagbe:")
		}
	}

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	workRepo := repository.NewFirestoreWorkRepository(firestoreClient)
	workflowRepo := repository.NewFirestoreWorkflowRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	complaintRepo := repository.NewFirestoreComplaintRepository(firestoreClient)
	walletRepo := repository.NewFirestoreWalletRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, toolkit)

	names := usecase.NewDisplayNames(userRepo, appCache, cfg.CacheTTL)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, workRepo, complaintRepo, names)
	workUseCase := usecase.NewWorkUseCase(workRepo, userRepo, names, files)
	workflowUseCase := usecase.NewWorkflowUseCase(workRepo, workflowRepo)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, workRepo, names)
	complaintUseCase := usecase.NewComplaintUseCase(complaintRepo, names)
	walletUseCase := usecase.NewWalletUseCase(userRepo, walletRepo)
	adminUseCase := usecase.NewAdminUseCase(userRepo, workRepo, complaintRepo, firebaseAuthClient, names, appCache, cfg.CacheTTL)

	handler.Setup(
		authUseCase,
		userUseCase,
		workUseCase,
		workflowUseCase,
		notificationUseCase,
		complaintUseCase,
		walletUseCase,
		adminUseCase,
	)
	handler.SetupHealthHandler(repository.NewFirestoreHealth(firestoreClient))

	limiter := ratelimit.NewRateLimiter(ratelimit.PerMinute(cfg.LoginRatePerMinute))
	limiter.SetPolicy("login", ratelimit.PerMinute(cfg.LoginRatePerMinute))
	limiter.SetPolicy("register", ratelimit.PerMinute(3))
	limiter.SetPolicy("reset", ratelimit.PerMinute(3))
	limiter.StartCleanupRoutine(ctx, 10*time.Minute)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(apimiddleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware, limiter)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
