package api

import (
	authdelivery "github.com/jordanschwab/petwebsite/internal/auth/delivery"
	petdelivery "github.com/jordanschwab/petwebsite/internal/pet/delivery"
	"github.com/jordanschwab/petwebsite/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	verifier    authdelivery.TokenVerifier
	authHandler *authdelivery.AuthHandler
	petHandler  *petdelivery.PetHandler
	config      *config.Config
}

func NewHandler(verifier authdelivery.TokenVerifier, authHandler *authdelivery.AuthHandler, petHandler *petdelivery.PetHandler, cfg *config.Config) *Handler {
	return &Handler{
		verifier:    verifier,
		authHandler: authHandler,
		petHandler:  petHandler,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	SetupRoutes(r, h.verifier, h.authHandler, h.petHandler)
	return r.Run(addr)
}
