package routes

import (
	"github.com/bitsim/lucky-draw-backend/internal/config"
	"github.com/bitsim/lucky-draw-backend/internal/handlers"
	"github.com/bitsim/lucky-draw-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	EventHandler        *handlers.EventHandler
	ActivityHandler     *handlers.ActivityHandler
	NotificationHandler *handlers.NotificationHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes (players identify by bare username, no auth)
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		users := public.Group("/users")
		{
			users.POST("/resolve", deps.UserHandler.Resolve)
			users.GET("/:username", deps.UserHandler.GetUser)
			users.POST("/:username/pay-xp", deps.UserHandler.PayPendingXP)
		}

		events := public.Group("/events")
		{
			events.GET("", deps.EventHandler.GetAllEvents)
			events.GET("/:id", deps.EventHandler.GetEventByID)
			events.POST("/:id/register", deps.EventHandler.Register)
			events.POST("/:id/result", deps.EventHandler.Result)
		}

		activities := public.Group("/activities")
		{
			activities.GET("", deps.ActivityHandler.GetAllActivities)
			activities.GET("/:id", deps.ActivityHandler.GetActivityByID)
			activities.POST("/:id/submit", deps.ActivityHandler.Submit)
		}

		public.POST("/notifications/token", deps.NotificationHandler.SaveToken)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		admin.POST("/events", deps.EventHandler.CreateEvent)
		admin.DELETE("/events/:id", deps.EventHandler.DeleteEvent)

		admin.POST("/activities", deps.ActivityHandler.CreateActivity)
		admin.DELETE("/activities/:id", deps.ActivityHandler.DeleteActivity)
		admin.GET("/activities/:id/results", deps.ActivityHandler.GetResults)
	}

	return router
}
