package api

import (
	"net/http"

	authdelivery "github.com/jordanschwab/petwebsite/internal/auth/delivery"
	petdelivery "github.com/jordanschwab/petwebsite/internal/pet/delivery"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface. Every route passes the optional
// authentication stage; protected groups add the mandatory stage on top.
func SetupRoutes(r *gin.Engine, verifier authdelivery.TokenVerifier, authHandler *authdelivery.AuthHandler, petHandler *petdelivery.PetHandler) {
	api := r.Group("/api")
	api.Use(authdelivery.Authenticate(verifier))
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authdelivery.RequireAuth(), authHandler.Me)
		}

		// Pet routes (protected)
		pets := api.Group("/pets")
		pets.Use(authdelivery.RequireAuth())
		{
			pets.POST("", petHandler.Create)
			pets.GET("", petHandler.List)
			pets.GET("/:id", petHandler.Get)
			pets.PATCH("/:id", petHandler.Update)
			pets.DELETE("/:id", petHandler.Delete)
		}
	}
}
