package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/ports"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
	internalWebsocket "github.com/VanillaFroggy/atom-messenger-api/internal/websocket"
)

type WebSocketHandler struct {
	Hub         *internalWebsocket.Hub
	AuthService *services.AuthService
	ChatRepo    ports.IChatRepository
	Logger      *slog.Logger
}

func NewWebSocketHandler(hub *internalWebsocket.Hub, authService *services.AuthService, chatRepo ports.IChatRepository, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:         hub,
		AuthService: authService,
		ChatRepo:    chatRepo,
		Logger:      logger,
	}
}

// HandleChatWebSocket upgrades the connection and joins the caller to the
// chat room. Only chat members may subscribe.
func (h *WebSocketHandler) HandleChatWebSocket(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	token := c.Query("token")
	if token == "" {
		token = extractToken(c)
	}

	userID, ok := h.AuthService.DecodeToken(c.Request.Context(), token)
	if !ok {
		h.Logger.Warn("unauthorized websocket connection attempt", "chatID", chatID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	member, err := h.ChatRepo.IsMember(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	conn, err := internalWebsocket.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &internalWebsocket.Client{
		Hub:    h.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
		ChatID: chatID,
	}

	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.Logger.Info("websocket connection established", "userID", userID, "chatID", chatID)
}
