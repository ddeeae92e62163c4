// internal/app/router.go
package app

import (
	allocHandler "prospecta-service/internal/handlers/allocation"
	authHandler "prospecta-service/internal/handlers/auth"
	repHandler "prospecta-service/internal/handlers/representative"
	searchHandler "prospecta-service/internal/handlers/search"
	wsHandler "prospecta-service/internal/handlers/websocket"
	"prospecta-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler           *authHandler.AuthHandler
	SearchHandler         *searchHandler.SearchHandler
	AllocationHandler     *allocHandler.AllocationHandler
	RepresentativeHandler *repHandler.RepresentativeHandler
	WSHandler             *wsHandler.WebSocketHandler
	AuthMiddleware        *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Company Search ====================
	companies := api.Group("/companies")
	companies.Use(h.AuthMiddleware.Auth())
	{
		companies.GET("/search", h.SearchHandler.Search)
		companies.GET("/count", h.SearchHandler.Count)
		companies.GET("/export", h.SearchHandler.Export)
	}

	// ==================== Allocation ====================
	allocation := api.Group("/allocation")
	allocation.Use(h.AuthMiddleware.Auth())
	{
		allocation.GET("/representatives", h.AllocationHandler.Representatives)
		allocation.GET("/stats", h.AllocationHandler.Stats)
	}

	// ==================== Admin Routes ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		// Company intake
		admin.POST("/companies", h.SearchHandler.Create)

		// Allocation runs
		admin.POST("/allocation/run", h.AllocationHandler.Allocate)

		// Representative management
		admin.POST("/representatives", h.RepresentativeHandler.Create)
		admin.GET("/representatives", h.RepresentativeHandler.List)
		admin.PATCH("/representatives/:id", h.RepresentativeHandler.SetActive)

		// User management
		admin.POST("/users", h.AuthHandler.CreateUser)
		admin.GET("/users", h.AuthHandler.ListUsers)
		admin.DELETE("/users/:id", h.AuthHandler.DeactivateUser)

		// Websocket stats
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}
}
