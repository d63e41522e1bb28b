package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skillhub-io/skillhub-api/api/swagger"
	"github.com/skillhub-io/skillhub-api/internal/handler"
	"github.com/skillhub-io/skillhub-api/internal/middleware"
	"github.com/skillhub-io/skillhub-api/internal/repository"
	"github.com/skillhub-io/skillhub-api/internal/service"
	"github.com/skillhub-io/skillhub-api/pkg/cache"
	"github.com/skillhub-io/skillhub-api/pkg/config"
	"github.com/skillhub-io/skillhub-api/pkg/database"
	"github.com/skillhub-io/skillhub-api/pkg/logger"
	"github.com/skillhub-io/skillhub-api/pkg/mailer"
	corsmiddleware "github.com/skillhub-io/skillhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skillhub-io/skillhub-api/pkg/middleware/requestid"
	"github.com/skillhub-io/skillhub-api/pkg/pdf"
)

// @title SkillHub API
// @version 1.0.0
// @description Online course marketplace API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()
	mailClient := mailer.NewClient(cfg.Email, logr)

	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	passwordResetRepo := repository.NewPasswordResetRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "skillhub-api",
	})
	applicationService := service.NewApplicationService(applicationRepo, userRepo, mailClient, validate, logr, service.ApplicationConfig{
		FrontendURL:   cfg.Email.FrontendURL,
		DirectorEmail: cfg.Email.DirectorEmail,
	})
	passwordResetService := service.NewPasswordResetService(passwordResetRepo, userRepo, mailClient, validate, logr, service.PasswordResetConfig{
		FrontendURL: cfg.Email.FrontendURL,
	})
	courseService := service.NewCourseService(courseRepo, cacheRepo, metricsService, validate, logr, service.CourseConfig{
		CacheTTL: cfg.Catalog.CacheTTL,
	})
	purchaseService := service.NewPurchaseService(purchaseRepo, courseRepo, logr)
	progressService := service.NewProgressService(progressRepo, purchaseService, logr)
	certificateService := service.NewCertificateService(certificateRepo, progressRepo, courseRepo, userRepo, pdf.NewCertificateRenderer(), logr)
	chatService := service.NewChatService(service.ChatServiceConfig{
		APIKey: cfg.Chat.GeminiAPIKey,
		Model:  cfg.Chat.GeminiModel,
	}, validate, logr)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, cfg.JWT.CookieName, cfg.JWT.Expiration),
		Applications:  handler.NewApplicationHandler(applicationService),
		Courses:       handler.NewCourseHandler(courseService, purchaseService),
		Purchases:     handler.NewPurchaseHandler(purchaseService),
		Progress:      handler.NewProgressHandler(progressService),
		Certificates:  handler.NewCertificateHandler(certificateService),
		PasswordReset: handler.NewPasswordResetHandler(passwordResetService),
		Chat:          handler.NewChatHandler(chatService),
		Metrics:       handler.NewMetricsHandler(metricsService),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authService, cfg.JWT.CookieName)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
