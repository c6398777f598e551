package httptransport

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "honeypoty/backend/docs" // Swagger docs
	"honeypoty/backend/internal/config"
	"honeypoty/backend/internal/health"
	"honeypoty/backend/internal/middleware"
	"honeypoty/backend/internal/monitoring"
	"honeypoty/backend/internal/service"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config  *config.Config
	Spaces  *service.SpaceService
	Emails  *service.EmailService
	Cleanup *service.CleanupTask
	Health  *health.HealthChecker
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryHandler(deps.Logger, deps.Metrics.RecordPanic))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.HTTPMetrics(deps.Metrics))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))
	router.Use(gincors.New(corsConfig(deps.Config.CORS.AllowedOrigins)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Health != nil {
		router.GET("/health/live", gin.WrapF(deps.Health.LiveHandler()))
		router.GET("/health/ready", gin.WrapF(deps.Health.ReadyHandler()))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}

	spaceHandler := NewSpaceHandler(deps.Spaces, deps.Emails, deps.Config.Space.InitialAddress, deps.Logger)
	emailHandler := NewEmailHandler(deps.Emails, deps.Logger)
	cleanupHandler := NewCleanupHandler(deps.Cleanup, deps.Logger)

	api := router.Group("/api")
	{
		api.GET("/spaces", spaceHandler.ListActive)
		api.GET("/spaces/all", spaceHandler.ListAll)
		api.POST("/spaces", spaceHandler.Create)
		api.GET("/spaces/:email/emails", spaceHandler.ListEmails)

		api.GET("/emails", emailHandler.ListBySender)
		api.POST("/emails/incoming", emailHandler.Incoming)

		api.POST("/cleanup", cleanupHandler.Run)
	}

	router.NoRoute(staticFallback(deps.Config.Server.PublicDir))

	return router
}

func corsConfig(origins []string) gincors.Config {
	cfg := gincors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 允许所有来源时不能携带凭证
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOrigins = nil
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	return cfg
}

// staticFallback 在未匹配的 GET 请求上提供前端静态文件，其余请求返回 JSON 404
func staticFallback(dir string) gin.HandlerFunc {
	var files http.Handler
	if info, err := os.Stat(dir); dir != "" && err == nil && info.IsDir() {
		files = http.FileServer(gin.Dir(dir, false))
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		urlPath := c.Request.URL.Path
		if files != nil && (method == http.MethodGet || method == http.MethodHead) && !strings.HasPrefix(urlPath, "/api/") {
			target := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+urlPath)))
			if _, err := os.Stat(target); err == nil {
				c.Status(http.StatusOK)
				files.ServeHTTP(c.Writer, c.Request)
				return
			}
		}
		notFound(c, MsgNotFound)
	}
}
