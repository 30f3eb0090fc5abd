package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
	"github.com/lovesinghal31/backendcourse/internal/application/services"
	"github.com/lovesinghal31/backendcourse/internal/config"
	"github.com/lovesinghal31/backendcourse/internal/delivery/handler"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure"
	pgrepo "github.com/lovesinghal31/backendcourse/internal/infrastructure/db/postgres"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL:", err)
	}
	if err := db.AutoMigrate(&pgrepo.UserModel{}, &pgrepo.SubscriptionModel{}, &pgrepo.WatchHistoryModel{}); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	var redisClient *redis.Client
	var challenges repositories.ChallengeStore
	if cfg.RedisAddr != "" {
		redisClient = infrastructure.NewRedisClient(cfg)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis:", err)
		}
		challenges = infrastructure.NewRedisChallengeStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory challenge store")
		challenges = infrastructure.NewMemoryChallengeStore(cfg.ChallengeSweepEvery, services.RemoveChallengeFiles)
	}

	storage, err := infrastructure.NewS3Storage(ctx, cfg)
	if err != nil {
		log.Fatal("failed to configure object storage:", err)
	}

	var mailer interfaces.Mailer
	switch cfg.EmailProvider {
	case "sendgrid":
		mailer = infrastructure.NewSendgridMailer(cfg.EmailAPIKey, cfg.EmailSender)
	default:
		mailer = infrastructure.NewResendMailer(cfg.EmailAPIKey, cfg.EmailSender)
	}

	jwtService := infrastructure.NewJWTService(cfg)
	limiter := infrastructure.NewRateLimiter(time.Hour, cfg.OTPRequestsPerHour)
	profileCache := infrastructure.NewProfileCache(redisClient, 24*time.Hour)
	userRepo := pgrepo.NewUserRepository(db)

	sessionService := services.NewSessionService(userRepo, challenges, jwtService, mailer, storage, limiter, cfg.OTPExpiry)
	profileService := services.NewProfileService(userRepo, storage, profileCache)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h := handler.NewHandler(sessionService, profileService, cfg.UploadTempDir, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	handler.RegisterRoutes(e, h, jwtService)

	log.Println("server listening on", cfg.HTTPAddr)
	if err := e.Start(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
