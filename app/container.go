package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanillaFroggy/atom-messenger-api/app/config"
	"github.com/VanillaFroggy/atom-messenger-api/internal/adapters"
	"github.com/VanillaFroggy/atom-messenger-api/internal/handlers"
	"github.com/VanillaFroggy/atom-messenger-api/internal/repositories"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
	"github.com/VanillaFroggy/atom-messenger-api/internal/websocket"
)

type Container struct {
	isShuttingDown bool

	GinEngine   *gin.Engine
	Config      *config.Config
	Redis       *redis.Client
	RateLimiter *RateLimiter

	Metrics        *Metrics
	Logger         *slog.Logger
	TracerProvider *tracesdk.TracerProvider
	Tracer         trace.Tracer

	Server *http.Server

	Repository *repositories.RepositoryAdapter

	AuthService    *services.AuthService
	ChatService    *services.ChatService
	MessageService *services.MessageService

	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	ChatHandler      *handlers.ChatHandler
	MessageHandler   *handlers.MessageHandler
	WebSocketHandler *handlers.WebSocketHandler

	WsHub *websocket.Hub
}

func NewContainer() (*Container, error) {
	container := &Container{}

	if err := container.initCore(); err != nil {
		return nil, err
	}

	if err := container.initProductionFeatures(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initCore() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = &cfg

	c.Logger = c.initLogger()
	c.Redis = c.initRedis()

	if err = c.initTracing(); err != nil {
		return err
	}

	c.Repository, err = repositories.NewRepositoryAdapter(cfg.Database, cfg.DatabaseConnections, c.Logger)
	if err != nil {
		c.Logger.Error("repository initialize error", "error", err.Error())
		return err
	}

	c.AuthService = services.NewAuthService(
		c.Repository.User,
		&services.BcryptHasher{},
		adapters.NewRedisTokenRepository(c.Redis),
		[]byte(cfg.JWT.SecretKey),
		c.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.AuthService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		c.Logger.Error("admin bootstrap failed", "error", err)
		return err
	}

	c.ChatService = services.NewChatService(c.Repository.Chat, c.Repository.Message, c.Repository.User, c.Logger)
	c.MessageService = services.NewMessageService(c.Repository.Message, c.Repository.Chat, c.Logger)

	c.WsHub = websocket.NewHub(c.MessageService, c.Logger)
	go c.WsHub.Run()

	c.RateLimiter = NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	c.AuthHandler = handlers.NewAuthHandler(c.AuthService, c.Logger, c.Tracer, cfg.Server.CookieSecure)
	c.UserHandler = handlers.NewUserHandler(c.AuthService, c.Logger)
	c.ChatHandler = handlers.NewChatHandler(c.ChatService, c.WsHub, c.Logger, c.Tracer)
	c.MessageHandler = handlers.NewMessageHandler(c.MessageService, c.WsHub, c.Logger, c.Tracer)
	c.WebSocketHandler = handlers.NewWebSocketHandler(c.WsHub, c.AuthService, c.Repository.Chat, c.Logger)

	if err := handlers.RegisterValidations(); err != nil {
		return err
	}

	c.Server = c.initServer()

	return nil
}

func (c *Container) initProductionFeatures() error {
	c.initMetrics()
	c.WsHub.ActiveConnections = c.Metrics.ActiveWebSockets

	c.GinEngine = c.initGinEngine()
	c.Server.Handler = c.GinEngine

	return nil
}

func (c *Container) initMetrics() {
	c.Metrics = &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration",
			},
			[]string{"method", "endpoint"},
		),
		ActiveWebSockets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "websocket_active_connections",
				Help: "Currently joined chat room subscribers",
			},
		),
	}
	prometheus.MustRegister(c.Metrics.RequestsTotal, c.Metrics.RequestDuration, c.Metrics.ActiveWebSockets)
}

func (c *Container) initTracing() error {
	if !c.Config.Tracing.Enabled {
		c.Logger.Info("tracing disabled")
		c.Tracer = trace.NewNoopTracerProvider().Tracer("atom-messenger-api")
		return nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(c.Config.Tracing.Endpoint)))
	if err != nil {
		return err
	}

	c.TracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(c.Config.Tracing.ServiceName),
			attribute.String("environment", c.Config.Environment.Current),
		)),
	)

	otel.SetTracerProvider(c.TracerProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	c.Tracer = c.TracerProvider.Tracer("atom-messenger-api")

	c.Logger.Info("tracing initialized", "endpoint", c.Config.Tracing.Endpoint)
	return nil
}

func (c *Container) initHealthRoutes(eng *gin.Engine) {
	eng.GET("/health", func(ctx *gin.Context) {
		health := map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if err := c.Repository.HealthCheck(ctx.Request.Context()); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			ctx.JSON(http.StatusServiceUnavailable, health)
			return
		}

		if err := c.Redis.Ping().Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
			ctx.JSON(http.StatusServiceUnavailable, health)
			return
		}

		health["database"] = "healthy"
		health["redis"] = "healthy"
		ctx.JSON(http.StatusOK, health)
	})

	eng.GET("/ready", func(ctx *gin.Context) {
		if c.isShuttingDown {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting down"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	eng.GET("/live", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "live"})
	})
}

func (c *Container) initGinEngine() *gin.Engine {
	eng := gin.Default()

	if c.Config.Tracing.Enabled {
		eng.Use(otelgin.Middleware(c.Config.Tracing.ServiceName))
	}

	// gin snapshots a route's handler chain at registration time, so global
	// middleware must be installed before any route.
	eng.Use(MetricsMiddleware(c.Metrics))
	eng.Use(services.SecurityMiddleware())
	eng.Use(services.RequestIDMiddleware())

	c.initHealthRoutes(eng)
	eng.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := eng.Group("/api")

	api.Use(RateLimitMiddleware(c.RateLimiter))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", c.AuthHandler.Register)
			authGroup.POST("/login", c.AuthHandler.Login)
			authGroup.POST("/logout", c.AuthHandler.Logout)
		}

		chatsGroup := api.Group("/chats")
		chatsGroup.Use(c.AuthHandler.AuthMiddleware())
		{
			chatsGroup.POST("", c.ChatHandler.CreateChat)
			chatsGroup.GET("", c.ChatHandler.GetUserChats)
			chatsGroup.GET("/:chatId", c.ChatHandler.GetChatByID)
			chatsGroup.GET("/:chatId/messages", c.ChatHandler.GetChatMessages)
			chatsGroup.DELETE("/:chatId", c.ChatHandler.DeleteChat)
		}

		messagesGroup := api.Group("/messages")
		messagesGroup.Use(c.AuthHandler.AuthMiddleware())
		{
			messagesGroup.POST("", c.MessageHandler.SendMessage)
			messagesGroup.GET("/:messageId", c.MessageHandler.GetMessageByID)
			messagesGroup.PUT("", c.MessageHandler.EditMessage)
			messagesGroup.PUT("/:messageId/read", c.MessageHandler.ReadMessage)
			messagesGroup.DELETE("/:messageId", c.MessageHandler.DeleteMessage)
		}

		usersGroup := api.Group("/users")
		usersGroup.Use(c.AuthHandler.AuthMiddleware())
		{
			usersGroup.GET("/:userId", c.UserHandler.GetUserByID)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(c.AuthHandler.AuthMiddleware(), c.AuthHandler.AdminMiddleware())
		{
			adminGroup.GET("/chats", c.ChatHandler.GetAllChats)
			adminGroup.PUT("/users/role", c.UserHandler.EditUserRole)
			adminGroup.PUT("/users/:userId/block", c.UserHandler.BlockUser)
		}

		api.GET("/ws/chat/:chatId", c.WebSocketHandler.HandleChatWebSocket)
	}

	return eng
}

func (c *Container) initLogger() *slog.Logger {
	var logger *slog.Logger
	if c.Config.Environment.Current == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	slog.SetDefault(logger)
	return logger
}

func (c *Container) initRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
}

func (c *Container) initServer() *http.Server {
	return &http.Server{
		Addr:         ":" + c.Config.Server.Port,
		ReadTimeout:  time.Duration(c.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(c.Config.Server.IdleTimeout) * time.Second,
	}
}

func (c *Container) Close() error {
	c.isShuttingDown = true

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("failed to close redis client", "error", err)
		}
	}

	if c.Repository != nil {
		if err := c.Repository.Close(c.Logger); err != nil {
			return err
		}
	}

	if c.TracerProvider != nil {
		if err := c.TracerProvider.Shutdown(context.Background()); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", "error", err)
		}
	}

	return nil
}
