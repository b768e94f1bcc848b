package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/handler"
	"github.com/noah-isme/daycare-api/internal/middleware"
	"github.com/noah-isme/daycare-api/internal/service"
	"github.com/noah-isme/daycare-api/pkg/config"
	"github.com/noah-isme/daycare-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/daycare-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/daycare-api/pkg/middleware/requestid"
)

type routerServices struct {
	auth       *service.AuthService
	students   *service.StudentService
	attendance *service.AttendanceService
	invoices   *service.InvoiceService
	penalties  *service.PenaltyService
	staff      *service.StaffService
	settings   *service.SettingsService
	catalog    *billing.Catalog
	activity   *service.ActivityService
	exports    *service.ExportService
	dashboard  *service.DashboardService
	streams    *service.StreamService
	metrics    *service.MetricsService
	checks     map[string]handler.ReadinessCheck
}

func newRouter(cfg *config.Config, logr *zap.Logger, s routerServices) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(s.metrics))

	metricsHandler := handler.NewMetricsHandler(s.metrics, s.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if s.metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(s.auth)
	studentHandler := handler.NewStudentHandler(s.students)
	attendanceHandler := handler.NewAttendanceHandler(s.attendance)
	invoiceHandler := handler.NewInvoiceHandler(s.invoices, s.exports)
	penaltyHandler := handler.NewPenaltyHandler(s.penalties)
	staffHandler := handler.NewStaffHandler(s.staff)
	settingsHandler := handler.NewSettingsHandler(s.settings, s.catalog)
	activityHandler := handler.NewActivityHandler(s.activity)
	exportHandler := handler.NewExportHandler(s.exports)
	dashboardHandler := handler.NewDashboardHandler(s.dashboard)
	streamHandler := handler.NewStreamHandler(s.streams, 25*time.Second)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", authHandler.Login)
	// Signed tokens authorise downloads so links work outside the SPA.
	api.GET("/export/:token", middleware.Audit(s.activity, "Export downloaded"), exportHandler.Download)

	streams := api.Group("/streams", middleware.StreamJWT(s.auth))
	streams.GET("/settings", streamHandler.Settings)
	streams.GET("/:collection", streamHandler.Collection)

	secured := api.Group("", middleware.JWT(s.auth))
	admin := middleware.RequireAdmin()

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/students", studentHandler.List)
	secured.POST("/students", studentHandler.Create)
	secured.GET("/students/:id", studentHandler.Get)
	secured.PATCH("/students/:id", studentHandler.Update)
	secured.POST("/students/:id/documents", studentHandler.AddDocument)
	secured.DELETE("/students/:id", admin, studentHandler.Delete)

	secured.GET("/attendance", attendanceHandler.List)
	secured.PUT("/attendance", attendanceHandler.Save)

	secured.GET("/penalties", penaltyHandler.List)
	secured.PATCH("/penalties/:id", penaltyHandler.Update)
	secured.DELETE("/penalties/:id", admin, penaltyHandler.Delete)

	secured.GET("/invoices", invoiceHandler.List)
	secured.POST("/invoices/generate", admin, invoiceHandler.GenerateMonthly)
	secured.POST("/invoices/generate/single", invoiceHandler.GenerateSingle)
	secured.POST("/invoices/generate/single/pdf", invoiceHandler.GenerateSinglePDF)
	secured.GET("/invoices/:id", invoiceHandler.Get)
	secured.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)
	secured.POST("/invoices/:id/pdf", invoiceHandler.PDF)

	secured.GET("/staff", staffHandler.List)
	secured.POST("/staff", staffHandler.Create)
	secured.POST("/staff/:id/check-in", staffHandler.CheckIn)
	secured.POST("/staff/:id/check-out", staffHandler.CheckOut)
	secured.DELETE("/staff/:id", admin, staffHandler.Delete)

	secured.GET("/settings", settingsHandler.Get)
	secured.PUT("/settings", admin, settingsHandler.Update)
	secured.GET("/schedules", settingsHandler.Schedules)

	secured.GET("/history", activityHandler.History)
	secured.GET("/notifications", activityHandler.Notifications)
	secured.GET("/dashboard", dashboardHandler.Summary)
	secured.GET("/export/csv/:type", exportHandler.CSV)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
	return r
}
