package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/services"
)

const tokenCookieName = "token"

type AuthHandler struct {
	service      *services.AuthService
	logger       *slog.Logger
	tracer       trace.Tracer
	cookieSecure bool
}

func NewAuthHandler(service *services.AuthService, logger *slog.Logger, tracer trace.Tracer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, logger: logger, tracer: tracer, cookieSecure: cookieSecure}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx, span := a.tracer.Start(c.Request.Context(), "auth.register")
	defer span.End()

	var req struct {
		Username string `json:"username" binding:"required,username"`
		Password string `json:"password" binding:"required,password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		a.logger.Warn("invalid registration input", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input format"})
		return
	}

	user, err := a.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		a.logger.Warn("register failed", "username", req.Username, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Login issues the bearer token both in the response body and in the `token`
// cookie the streaming endpoint reads.
func (a *AuthHandler) Login(c *gin.Context) {
	ctx, span := a.tracer.Start(c.Request.Context(), "auth.login")
	defer span.End()

	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		a.logger.Warn("invalid login input", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input format"})
		return
	}

	user, token, err := a.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		a.logger.Warn("login failed", "username", req.Username, "error", err)
		respondError(c, err)
		return
	}

	c.SetCookie(tokenCookieName, token, int(services.TokenLifetime.Seconds()), "/", "", a.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": token})
}

func (a *AuthHandler) Logout(c *gin.Context) {
	token := extractToken(c)
	if token != "" {
		if err := a.service.RevokeToken(c.Request.Context(), token); err != nil {
			a.logger.Error("token revocation failed", "error", err)
		}
	}

	c.SetCookie(tokenCookieName, "", -1, "/", "", a.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// AuthMiddleware resolves the caller identity from the token cookie (with an
// Authorization header fallback). A missing or invalid token is a 401.
func (a *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		userID, ok := a.service.DecodeToken(c.Request.Context(), token)
		if !ok {
			a.logger.Warn("unauthenticated request", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := a.service.GetUserByID(c.Request.Context(), userID)
		if err != nil || user.Blocked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set("userID", userID)
		c.Set("role", user.Role)
		c.Set(tokenCookieName, token)
		c.Next()
	}
}

// AdminMiddleware gates admin operations; it assumes AuthMiddleware ran first.
func (a *AuthHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func callerID(c *gin.Context) uuid.UUID {
	value, _ := c.Get("userID")
	userID, _ := value.(uuid.UUID)
	return userID
}
