package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/config"
	"github.com/0xniki/rezzy-backend/internal/api/handler"
	"github.com/0xniki/rezzy-backend/internal/api/middleware"
	"github.com/0xniki/rezzy-backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 桌位模块
		tables := v1.Group("/tables")
		{
			tables.GET("", h.Table.List)
			tables.GET("/:id", h.Table.Get)
			tables.POST("", h.Table.Create)
			tables.PUT("/:id", h.Table.Update)
			tables.DELETE("/:id", h.Table.Delete)
		}

		// 预订模块（创建接口额外限流，保护锁竞争热点）
		reservations := v1.Group("/reservations")
		{
			reservations.GET("", h.Reservation.List)
			reservations.GET("/:id", h.Reservation.Get)
			reservations.POST("", middleware.RateLimit(rdb, 30, time.Minute), h.Reservation.Create)
			reservations.PUT("/:id", h.Reservation.Update)
			reservations.PATCH("/:id/status", h.Reservation.UpdateStatus)
			reservations.DELETE("/:id", h.Reservation.Delete)
		}

		// 可用性模块
		v1.POST("/availability", h.Availability.Check)

		// 营业时间模块
		hours := v1.Group("/hours")
		{
			hours.GET("", h.Hours.List)
			hours.PUT("", h.Hours.Set)
		}
		specialHours := v1.Group("/special-hours")
		{
			specialHours.GET("", h.Hours.ListSpecial)
			specialHours.GET("/:date", h.Hours.GetSpecial)
			specialHours.PUT("", h.Hours.SetSpecial)
			specialHours.DELETE("/:id", h.Hours.DeleteSpecial)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/reservations", h.Export.ExportExcel)
			export.GET("/calendar", h.Export.ExportCalendar)
		}
	}

	return r
}
