package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
	"github.com/VanillaFroggy/atom-messenger-api/internal/websocket"
)

type ChatHandler struct {
	service *services.ChatService
	hub     *websocket.Hub
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewChatHandler(service *services.ChatService, hub *websocket.Hub, logger *slog.Logger, tracer trace.Tracer) *ChatHandler {
	return &ChatHandler{service: service, hub: hub, logger: logger, tracer: tracer}
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "chat.create")
	defer span.End()

	var req struct {
		ChatName string      `json:"chat_name" binding:"required"`
		Users    []uuid.UUID `json:"users" binding:"required,len=2"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	summary, err := h.service.CreateChat(ctx, req.ChatName, req.Users)
	if err != nil {
		h.logger.Warn("chat creation failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetUserChats lists the caller's chats sorted by latest-message recency.
func (h *ChatHandler) GetUserChats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "chat.list")
	defer span.End()

	userID := callerID(c)
	summaries, err := h.service.ListChats(ctx, &userID)
	if err != nil {
		h.logger.Error("failed to list chats", "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": summaries})
}

// GetAllChats is the admin view over every chat.
func (h *ChatHandler) GetAllChats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "chat.list_all")
	defer span.End()

	summaries, err := h.service.ListChats(ctx, nil)
	if err != nil {
		h.logger.Error("failed to list all chats", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": summaries})
}

func (h *ChatHandler) GetChatByID(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	summary, err := h.service.GetChatByID(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	messages, err := h.service.GetChatMessages(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	if err := h.service.DeleteChat(c.Request.Context(), chatID); err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastToChat(chatID, websocket.SystemNotice{
		Type:   "chat_deleted",
		ChatID: chatID,
		Value:  "chat deleted",
	})

	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}
