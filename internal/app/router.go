package app

import (
	"github.com/imanoela-sketch/apphistomed/docs"
	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/middleware"
	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// rotas públicas
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/signup", c.auth.Signup)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/admin", c.auth.AdminLogin)
	}

	// rotas de usuário autenticado (estudante ou admin)
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/auth/logout", c.auth.Logout)
		authGroup.GET("/auth/profile", c.auth.Profile)

		authGroup.GET("/topics", c.library.Topics)
		authGroup.GET("/library/:topicId", c.library.Content)

		authGroup.POST("/quiz", c.quiz.Start)
		authGroup.GET("/quiz/:sessionId", c.quiz.Get)
		authGroup.POST("/quiz/:sessionId/answer", c.quiz.Answer)
		authGroup.POST("/quiz/:sessionId/advance", c.quiz.Advance)
		authGroup.DELETE("/quiz/:sessionId", c.quiz.Reset)

		authGroup.POST("/microscope/analyze", c.microscope.Analyze)

		authGroup.GET("/mindmaps", c.mindmap.List)
	}

	// rotas exclusivas do administrador
	adminGroup := router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/mindmaps", c.mindmap.Add)
		adminGroup.DELETE("/mindmaps/:id", c.mindmap.Delete)

		adminGroup.GET("/admin/logs", c.studentLog.List)
		adminGroup.DELETE("/admin/logs", c.studentLog.Clear)
		adminGroup.GET("/admin/logs/export", c.studentLog.ExportCSV)
		adminGroup.GET("/admin/logs/export-xlsx", c.studentLog.ExportXLSX)
	}
}
