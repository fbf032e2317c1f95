package handlers

import (
	"time"

	"amc_simulator/internal/logger"
	"amc_simulator/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	replayInterval time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithReplayInterval sets the default tick of the /ws replay stream.
func WithReplayInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxInterval {
			h.replayInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, replayInterval: defaultInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Replay of a stored run, one record per tick
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerRunRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		// Body example: {"day_count":7,"interval_minutes":30,"quality_mode":"mixed","anomaly_ratio":10}
		runs.POST("", h.generateRun)
		runs.GET("", h.listRuns)
		runs.GET("/:id", h.getRun)
		runs.DELETE("/:id", h.deleteRun)
		runs.GET("/:id/records", h.getRecords)
		runs.GET("/:id/summary", h.getSummary)
		runs.GET("/:id/export", h.exportRun)
		runs.POST("/:id/archive", h.archiveRun)
		runs.POST("/:id/publish", h.publishRun)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", h.getSettings)
	api.PUT("/settings", h.updateSettings)
	api.GET("/presets", h.listPresets)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
