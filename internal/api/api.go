package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/api/handlers"
	"github.com/andresuchdata/retail-backoffice/internal/api/middleware"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Planner  *service.PlannerService
	Orders   *service.OrderService
	Settings *service.SettingsService
	Reports  *service.ReportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	poGroup := apiGroup.Group("/po")

	if services.Planner != nil {
		planHandler := handlers.NewPlanHandler(services.Planner)
		planGroup := poGroup.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.POST("/buffer", planHandler.UpdateBuffer)
			planGroup.POST("/target-date", planHandler.UpdateTargetDate)
			planGroup.POST("/apply-suggested", planHandler.ApplySuggested)
			planGroup.POST("/order-quantity", planHandler.SetOrderQuantity)
			planGroup.POST("/buffers", planHandler.SaveBuffers)
		}
	}

	if services.Orders != nil {
		orderHandler := handlers.NewOrderHandler(services.Orders)
		poGroup.POST("/orders", orderHandler.Submit)
	}

	if services.Settings != nil {
		settingsHandler := handlers.NewSettingsHandler(services.Settings)
		supplierGroup := apiGroup.Group("/suppliers")
		{
			supplierGroup.GET("", settingsHandler.ListSuppliers)
			supplierGroup.GET("/:id", settingsHandler.GetSupplier)
			supplierGroup.PUT("/:id", settingsHandler.UpdateSupplier)
		}

		groupGroup := apiGroup.Group("/notification-groups")
		{
			groupGroup.GET("", settingsHandler.ListNotificationGroups)
			groupGroup.PUT("/:id", settingsHandler.SaveNotificationGroup)
			groupGroup.DELETE("/:id", settingsHandler.DeleteNotificationGroup)
		}
	}

	if services.Reports != nil {
		reportHandler := handlers.NewReportHandler(services.Reports)
		apiGroup.GET("/reports/sales", reportHandler.GetDailySales)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
