package handlers

import (
	_ "labclimate/docs"
	"labclimate/internal/logger"
	"labclimate/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.accessLog)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live dashboard stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerSystemRoutes(api)
		h.registerHVACRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/state", h.getState)
	}
}

func (h *Handler) registerSystemRoutes(api *gin.RouterGroup) {
	system := api.Group("/system")
	{
		system.POST("/start", h.startSystem)
		system.POST("/stop", h.stopSystem)
	}
}

func (h *Handler) registerHVACRoutes(api *gin.RouterGroup) {
	hvac := api.Group("/hvac")
	{
		hvac.POST("/cooling", h.toggleCooling)
		hvac.POST("/heating", h.toggleHeating)
		hvac.POST("/fans", h.toggleFans)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		// Body example: {"value": 25}
		settings.PUT("/target", h.setTarget)
		settings.PUT("/threshold", h.setThreshold)
		// Body example: {"value": false}
		settings.PUT("/automation", h.setAutomation)
		settings.PUT("/notifications", h.setNotifications)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
		logs.DELETE("/", h.clearLogs)
		logs.POST("/export", h.exportLogs)
	}
}
