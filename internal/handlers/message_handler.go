package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
	"github.com/VanillaFroggy/atom-messenger-api/internal/websocket"
)

// MessageHandler wires the message lifecycle to HTTP and pushes every
// successful mutation to the owning chat room.
type MessageHandler struct {
	service *services.MessageService
	hub     *websocket.Hub
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewMessageHandler(service *services.MessageService, hub *websocket.Hub, logger *slog.Logger, tracer trace.Tracer) *MessageHandler {
	return &MessageHandler{service: service, hub: hub, logger: logger, tracer: tracer}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "message.send")
	defer span.End()

	var req struct {
		ChatID uuid.UUID          `json:"chat_id" binding:"required"`
		Type   models.MessageType `json:"message_type" binding:"required"`
		Value  string             `json:"value" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	authorID := callerID(c)
	message, err := h.service.Send(ctx, req.ChatID, &authorID, req.Type, req.Value)
	if err != nil {
		h.logger.Warn("send message failed", "chatID", req.ChatID, "error", err)
		respondError(c, err)
		return
	}

	h.hub.BroadcastToChat(message.ChatID, message)
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) EditMessage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "message.edit")
	defer span.End()

	var req struct {
		ID    uuid.UUID          `json:"id" binding:"required"`
		Type  models.MessageType `json:"message_type" binding:"required"`
		Value string             `json:"value" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	message, err := h.service.Edit(ctx, callerID(c), req.ID, req.Type, req.Value)
	if err != nil {
		h.logger.Warn("edit message failed", "messageID", req.ID, "error", err)
		respondError(c, err)
		return
	}

	h.hub.BroadcastToChat(message.ChatID, message)
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) ReadMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	message, err := h.service.MarkRead(c.Request.Context(), callerID(c), messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastToChat(message.ChatID, message)
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	chatID, err := h.service.Delete(c.Request.Context(), callerID(c), messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.BroadcastToChat(chatID, websocket.SystemNotice{
		Type:   "message_deleted",
		ChatID: chatID,
		Value:  messageID.String(),
	})
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID})
}

func (h *MessageHandler) GetMessageByID(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	message, err := h.service.GetMessageByID(c.Request.Context(), messageID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}
