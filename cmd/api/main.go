package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"workin/internal/config"
	"workin/internal/db"
	"workin/internal/email"
	apihttp "workin/internal/http"
	"workin/internal/repository"
	"workin/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	// JWT_SECRET y DATABASE_URL son obligatorias: sin ellas no se arranca.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	inviteRepo := repository.NewPgInviteRepository(pool)
	companyRepo := repository.NewPgCompanyRepository(pool)
	jobRepo := repository.NewPgJobRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, cfg.AppBaseURL)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	// Límite de emisión de correos (verificación y reset) por dirección.
	emailLimiter := service.NewMemoryRateLimiter(10*time.Minute, 3)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			emailLimiter = service.NewRedisRateLimiter(redisClient, 10*time.Minute, 3)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret)
	accountSvc := service.NewAccountService(logger, userRepo, tokenSvc, emailSender, emailLimiter)
	authSvc := service.NewAuthService(logger, userRepo, tokenSvc, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	passwordSvc := service.NewPasswordService(logger, userRepo, tokenSvc, emailSender, emailLimiter)
	emailChangeSvc := service.NewEmailChangeService(logger, userRepo, tokenSvc, emailSender)
	inviteSvc := service.NewInviteService(logger, userRepo, inviteRepo)

	dev := cfg.IsDevelopment()
	authHandler := apihttp.NewAuthHandler(logger, dev, accountSvc, authSvc, passwordSvc)
	profileHandler := apihttp.NewProfileHandler(logger, dev, userRepo, passwordSvc, emailChangeSvc)
	adminHandler := apihttp.NewAdminHandler(logger, dev, userRepo, inviteSvc)
	companyHandler := apihttp.NewCompanyHandler(logger, dev, companyRepo)
	jobHandler := apihttp.NewJobHandler(logger, dev, jobRepo)
	router := apihttp.NewRouter(logger, dev, tokenSvc, userRepo, authHandler, profileHandler, adminHandler, companyHandler, jobHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
