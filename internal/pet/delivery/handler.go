package delivery

import (
	"errors"
	"net/http"

	authdelivery "github.com/jordanschwab/petwebsite/internal/auth/delivery"
	authdomain "github.com/jordanschwab/petwebsite/internal/auth/domain"
	petdomain "github.com/jordanschwab/petwebsite/internal/pet/domain"
	petdto "github.com/jordanschwab/petwebsite/internal/pet/dto"
	"github.com/jordanschwab/petwebsite/internal/pet/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PetHandler struct {
	petUsecase usecase.PetUsecase
	log        *zap.Logger
}

func NewPetHandler(petUsecase usecase.PetUsecase, log *zap.Logger) *PetHandler {
	return &PetHandler{petUsecase: petUsecase, log: log.Named("pet_handler")}
}

func (h *PetHandler) Create(c *gin.Context) {
	principal, ok := authdelivery.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	var req petdto.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "VALIDATION_ERROR"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	pet, err := h.petUsecase.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		h.log.Error("failed to create pet", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pet", "code": "CREATE_FAILED"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"pet": pet}, "message": "Pet created successfully"})
}

func (h *PetHandler) List(c *gin.Context) {
	principal, ok := authdelivery.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	pets, err := h.petUsecase.List(c.Request.Context(), principal.UserID, c.Query("search"))
	if err != nil {
		h.log.Error("failed to list pets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pets", "code": "FETCH_FAILED"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"pets": pets}})
}

func (h *PetHandler) Get(c *gin.Context) {
	principal, ok := authdelivery.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	pet, err := h.petUsecase.Get(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch pet", "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"pet": pet}})
}

func (h *PetHandler) Update(c *gin.Context) {
	principal, ok := authdelivery.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	var req petdto.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "VALIDATION_ERROR"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	pet, err := h.petUsecase.Update(c.Request.Context(), principal.UserID, c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err, "Failed to update pet", "UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"pet": pet}, "message": "Pet updated successfully"})
}

func (h *PetHandler) Delete(c *gin.Context) {
	principal, ok := authdelivery.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "AUTH_REQUIRED"})
		return
	}

	if err := h.petUsecase.Delete(c.Request.Context(), principal.UserID, c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete pet", "DELETE_FAILED")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pet deleted successfully"})
}

func (h *PetHandler) respondError(c *gin.Context, err error, fallback, fallbackCode string) {
	switch {
	case errors.Is(err, petdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pet not found", "code": "NOT_FOUND"})
	case errors.Is(err, authdomain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource", "code": "FORBIDDEN"})
	default:
		h.log.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "code": fallbackCode})
	}
}
