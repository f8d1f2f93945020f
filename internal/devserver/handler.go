package devserver

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

// TokenPath is the renewal route. Clients post to "user/token" relative to
// an "/api/v1/" base.
const TokenPath = "/api/v1/user/token"

const userIDKey = "user_id"

type handler struct {
	cfg *Config
	log logging.Logger
}

// NewHandler returns the dev API routes.
func NewHandler(cfg *Config, log logging.Logger) http.Handler {
	h := &handler{cfg: cfg, log: log}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())

	router.POST(TokenPath, h.bearerAuth(), h.renewToken)
	return router
}

// bearerAuth rejects requests without a valid "Bearer <jwt>" header and
// stores the token's user id under userIDKey.
func (h *handler) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID := c.GetHeader("X-Request-ID")

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			h.log.Warn(ctx, "token renewal without bearer", "request_id", requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		userID, err := UserIDFromToken(token, []byte(h.cfg.SecretKey))
		if err != nil {
			h.log.Warn(ctx, "token renewal rejected", "request_id", requestID, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (h *handler) renewToken(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetHeader("X-Request-ID")
	userID := c.GetString(userIDKey)

	token, err := GenerateToken(userID, []byte(h.cfg.SecretKey), h.cfg.TokenValidity)
	if err != nil {
		h.log.Error(ctx, "token signing failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.log.Info(ctx, "token renewed", "request_id", requestID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
