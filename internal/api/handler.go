package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jqdata/config"
	"jqdata/internal/model"
	"jqdata/internal/service"
	"jqdata/internal/transport/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is what the gateway serves: the websocket surface plus the
// execution history.
type Service interface {
	ws.Dispatcher
	Executions(limit int) ([]model.Execution, error)
}

type Handler struct {
	Svc    Service
	Cfg    config.GatewayConfig
	WS     http.Handler
	Logger *zap.Logger
}

func NewHandler(svc Service, cfg config.GatewayConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Svc: svc, Cfg: cfg, WS: ws.NewServer(svc, logger), Logger: logger}
}

// NewRouter builds the gateway engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.LogMiddleware())
	h.SetupRoutes(r)
	return r
}

func (h *Handler) authorized(token string) bool {
	if h.Cfg.AuthToken == "" {
		return true
	}
	return strings.TrimPrefix(token, "Bearer ") == h.Cfg.AuthToken
}

func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.authorized(c.GetHeader("Authorization")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *Handler) LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (h *Handler) SetupRoutes(r *gin.Engine) {
	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(h.AuthMiddleware())
	v1.GET("/methods", h.ListMethods)
	v1.POST("/query/:method", h.Query)
	v1.POST("/token/refresh", h.RefreshToken)
	v1.GET("/executions", h.ListExecutions)

	r.GET("/ws", h.HandleWS)
}

func (h *Handler) ListMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": h.Svc.Methods()})
}

func (h *Handler) Query(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"request_id": requestID, "error": err.Error()})
		return
	}
	params := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"request_id": requestID, "error": "params must be a json object"})
			return
		}
	}

	data, err := h.Svc.Query(c.Request.Context(), requestID, c.Param("method"), params)
	if err != nil {
		c.JSON(service.StatusOf(err), gin.H{"request_id": requestID, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "data": data})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	if err := h.Svc.Refresh(c.Request.Context()); err != nil {
		c.JSON(service.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (h *Handler) ListExecutions(c *gin.Context) {
	limit := 0
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	execs, err := h.Svc.Executions(limit)
	if err != nil {
		h.Logger.Error("list executions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": execs})
}

func (h *Handler) HandleWS(c *gin.Context) {
	// browsers cannot set headers on the handshake
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
	}
	if !h.authorized(token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.WS.ServeHTTP(c.Writer, c.Request)
}
