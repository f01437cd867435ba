package app

import (
	"visaprep_backend/internal/config"
	"visaprep_backend/internal/middleware"
	"visaprep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerTestRoutes(authGroup, c)
		a.registerAttemptRoutes(authGroup, c)
		a.registerUserRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 列表类：可选认证，允许游客访问，登录用户按语言偏好返回
		public.GET("/chapters", middleware.TryAuthMiddleware(cfg), c.chapter.ListChapters)
		public.GET("/chapters/:id", middleware.TryAuthMiddleware(cfg), c.chapter.GetChapter)
		public.GET("/tests/free", middleware.TryAuthMiddleware(cfg), c.test.GetFreeTests)
		public.GET("/tests/search", middleware.TryAuthMiddleware(cfg), c.test.SearchTests)
		public.GET("/leaderboard", middleware.TryAuthMiddleware(cfg), c.attempt.GetLeaderboard)
	}
}

func (a *App) registerTestRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/tests", c.test.GetAvailableTests)
	rg.GET("/tests/type/:type", c.test.GetTestsByType)
	rg.GET("/chapters/:id/tests", c.test.GetTestsByChapter)
	rg.GET("/tests/:id", c.test.GetTest)
}

func (a *App) registerAttemptRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/attempts/start", c.attempt.StartAttempt)
	rg.POST("/attempts/retake", c.attempt.RetakeTest)
	rg.POST("/attempts/submit", c.attempt.SubmitAttempt)
	rg.GET("/attempts/history", c.attempt.GetHistory)
	rg.GET("/attempts/:id", c.attempt.GetAttemptDetail)
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/users/me", c.user.Me)
	rg.GET("/users/me/stats", c.user.Stats)
}
