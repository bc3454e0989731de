package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/VanillaFroggy/atom-messenger-api/app/config"
	"github.com/VanillaFroggy/atom-messenger-api/app/tests"
	"github.com/VanillaFroggy/atom-messenger-api/internal/handlers"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
	"github.com/VanillaFroggy/atom-messenger-api/internal/websocket"
)

func newTestContainer() *Container {
	logger := slog.Default()

	authService := services.NewAuthService(
		&tests.MockUserRepository{}, &tests.MockHasher{}, nil, []byte("test_key"), logger)
	chatService := services.NewChatService(
		&tests.MockChatRepository{}, &tests.MockMessageRepository{}, &tests.MockUserRepository{}, logger)
	messageService := services.NewMessageService(
		&tests.MockMessageRepository{}, &tests.MockChatRepository{}, logger)
	hub := websocket.NewHub(messageService, logger)

	container := &Container{
		Config:      &config.Config{},
		Logger:      logger,
		RateLimiter: NewRateLimiter(100, time.Minute),
		Metrics: &Metrics{
			RequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
				[]string{"method", "endpoint", "status"},
			),
			RequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration"},
				[]string{"method", "endpoint"},
			),
			ActiveWebSockets: prometheus.NewGauge(
				prometheus.GaugeOpts{Name: "websocket_active_connections", Help: "Currently joined chat room subscribers"},
			),
		},
		WsHub:          hub,
		AuthService:    authService,
		ChatService:    chatService,
		MessageService: messageService,
	}

	container.AuthHandler = handlers.NewAuthHandler(authService, logger, tests.NoopTracer(), false)
	container.UserHandler = handlers.NewUserHandler(authService, logger)
	container.ChatHandler = handlers.NewChatHandler(chatService, hub, logger, tests.NoopTracer())
	container.MessageHandler = handlers.NewMessageHandler(messageService, hub, logger, tests.NoopTracer())
	container.WebSocketHandler = handlers.NewWebSocketHandler(hub, authService, &tests.MockChatRepository{}, logger)

	return container
}

func TestGinEngine_GlobalMiddlewareAppliesToRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newTestContainer()

	eng := container.initGinEngine()

	w := httptest.NewRecorder()
	eng.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	counter := container.Metrics.RequestsTotal.WithLabelValues(http.MethodPost, "/api/auth/register", "400")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}
