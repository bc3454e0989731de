package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
)

type UserHandler struct {
	service *services.AuthService
	logger  *slog.Logger
}

func NewUserHandler(service *services.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) EditUserRole(c *gin.Context) {
	var req struct {
		ID   uuid.UUID   `json:"id" binding:"required"`
		Role models.Role `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.service.EditUserRole(c.Request.Context(), req.ID, req.Role); err != nil {
		h.logger.Warn("edit user role failed", "userID", req.ID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.BlockUser(c.Request.Context(), userID); err != nil {
		h.logger.Warn("block user failed", "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user blocked"})
}
