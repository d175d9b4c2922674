package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/vidguard/internal/api/handler"
	"github.com/timmy/vidguard/internal/api/middleware"
	"github.com/timmy/vidguard/internal/config"
	"github.com/timmy/vidguard/internal/logger"
	"github.com/timmy/vidguard/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	analyzer *service.Analyzer,
	dashboard *service.DashboardService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	analyzeHandler := handler.NewAnalyzeHandler(analyzer, cfg.Analysis.UploadDir)
	dashboardHandler := handler.NewDashboardHandler(dashboard)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Analysis
	r.POST("/analyze", analyzeHandler.Analyze)

	// Dashboard
	r.GET("/dashboard/summary", dashboardHandler.Summary)
	r.GET("/dashboard/recent", dashboardHandler.Recent)

	return r
}
