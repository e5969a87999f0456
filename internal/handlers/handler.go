package handlers

import (
	"net/http"

	"smart_budget/internal/logger"
	"smart_budget/internal/service"

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
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live month-summary stream (HTTP upgrade) — same port, token via query
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
	api := r.Group("/api/v1", h.identityMiddleware)
	{
		h.registerBudgetRoutes(api)
		h.registerInsightRoutes(api)
		h.registerActivityRoutes(api)
	}
}

func (h *Handler) registerBudgetRoutes(api *gin.RouterGroup) {
	budget := api.Group("/budget")
	{
		budget.GET("/months", h.listMonths)
		budget.GET("/months/:month", h.getMonth)
		// Body example: {"income":5000,"expenses":{"Groceries":420},"debt":2000}
		budget.PUT("/months/:month", h.saveMonth)
		budget.GET("/categories", h.listCategories)
		budget.POST("/categories", h.addCategory)
		budget.DELETE("/categories/:name", h.removeCategory)
		budget.GET("/export", h.exportLedger)
	}
}

func (h *Handler) registerInsightRoutes(api *gin.RouterGroup) {
	insights := api.Group("/insights")
	{
		insights.GET("/summary", h.getSummaries)
		insights.GET("/trends", h.getTrends)
		insights.GET("/advice", h.getAdvice)
	}
}

func (h *Handler) registerActivityRoutes(api *gin.RouterGroup) {
	activity := api.Group("/activity")
	{
		activity.GET("/", h.getActivity)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
