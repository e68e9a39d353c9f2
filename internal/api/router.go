package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/citelens/internal/api/admin"
	"github.com/liliang-cn/citelens/internal/api/chat"
	"github.com/liliang-cn/citelens/internal/api/middleware"
	"github.com/liliang-cn/citelens/internal/api/vision"
	"github.com/liliang-cn/citelens/internal/metrics"
	"github.com/liliang-cn/citelens/internal/service"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
	// Metrics is served on /metrics when set.
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService *service.ChatService,
	locateService *service.LocateService,
	sessionService *service.SessionService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(middleware.Logger(cfg.Logger))
	}

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	apiGroup := r.Group("/api")

	// Chat and session browsing (public)
	chat.NewHandler(chatService, sessionService).RegisterRoutes(apiGroup)

	// Image locate and field extraction (public)
	vision.NewHandler(locateService).RegisterRoutes(apiGroup)

	// Admin API (requires API key)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	admin.NewHandler(sessionService).RegisterRoutes(adminGroup)

	return r
}
