package main

import (
	"context"
	"log"

	api "github.com/jordanschwab/petwebsite/cmd/api"
	authdelivery "github.com/jordanschwab/petwebsite/internal/auth/delivery"
	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	"github.com/jordanschwab/petwebsite/internal/auth/google"
	authrepo "github.com/jordanschwab/petwebsite/internal/auth/repository"
	"github.com/jordanschwab/petwebsite/internal/auth/token"
	authusecase "github.com/jordanschwab/petwebsite/internal/auth/usecase"
	petdelivery "github.com/jordanschwab/petwebsite/internal/pet/delivery"
	petdomain "github.com/jordanschwab/petwebsite/internal/pet/domain"
	petrepo "github.com/jordanschwab/petwebsite/internal/pet/repository"
	petusecase "github.com/jordanschwab/petwebsite/internal/pet/usecase"
	"github.com/jordanschwab/petwebsite/pkg/config"
	"github.com/jordanschwab/petwebsite/pkg/database"
	"github.com/jordanschwab/petwebsite/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &petdomain.Pet{}); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	userRepo := authrepo.NewUserRepository(db)
	refreshTokenRepo := authrepo.NewRefreshTokenRepository(db)
	petRepo := petrepo.NewPetRepository(db)

	// Google ID-token verifier; the client handle is built once and reused
	verifier, err := google.NewVerifier(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize Google verifier", zap.Error(err))
	}

	// Token issuer (single secret, HS256)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)

	// Initialize use cases
	authUsecase := authusecase.NewAuthUsecase(userRepo, refreshTokenRepo, verifier, issuer, zlog)
	petUsecase := petusecase.NewPetUsecase(petRepo, zlog)

	// HTTP delivery
	cookieMaxAge := int(cfg.JWTRefreshExpiry.Seconds())
	secureCookies := cfg.Env == "production"
	authHandler := authdelivery.NewAuthHandler(authUsecase, cookieMaxAge, secureCookies, zlog)
	petHandler := petdelivery.NewPetHandler(petUsecase, zlog)

	handler := api.NewHandler(issuer, authHandler, petHandler, cfg)

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
