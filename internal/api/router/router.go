package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"corsihub/config"
	"corsihub/internal/api/handler"
	"corsihub/internal/api/middleware"
	"corsihub/pkg/jwt"
	"corsihub/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 事件模块
			events := authorized.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.POST("", h.Event.CreateEvent)
				events.GET("/calendar.ics", h.Export.ExportCalendar)
				events.GET("/:id", h.Event.GetEvent)
				events.PUT("/:id", h.Event.UpdateEvent)
				events.DELETE("/:id", h.Event.DeleteEvent)
				events.PUT("/:id/status", h.Event.UpdateEventStatus)
				events.PUT("/:id/tasks", h.Event.MarkTask)

				// 参训人数模块
				events.GET("/:id/attendees", h.Attendee.GetRoster)
				events.PUT("/:id/attendees", h.Attendee.SaveRoster)
				events.GET("/:id/attendees/export", h.Export.ExportAttendees)
			}

			// 截止期限模块
			authorized.GET("/deadlines", h.Deadline.ListUpcoming)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return r
}
