package app

import (
	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/middleware"
	"github.com/meytoof/MentorAI-sub000/internal/model"
	"github.com/meytoof/MentorAI-sub000/pkg/monitoring"

	"github.com/meytoof/MentorAI-sub000/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/health", c.health.HealthCheck)
		public.GET("/motivation", c.motivation.GetCurrentMotivation)
	}

	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.Use(middleware.ActivityMiddleware(repos.user))
	{
		authed.POST("/tutor/ask", c.tutor.Ask)
		authed.GET("/tutor/history", c.tutor.History)

		authed.GET("/profile", c.auth.GetProfile)
		authed.PUT("/user/profile", c.user.UpdateProfile)
		authed.POST("/user/avatar/upload", c.user.UploadAvatar)
		authed.POST("/user/checkin", c.user.Checkin)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/conversations", c.conversation.ListConversations)
		admin.GET("/motivations", c.motivation.ListMotivations)
		admin.PUT("/motivation/:id", c.motivation.SetCurrentMotivation)
	}
}
