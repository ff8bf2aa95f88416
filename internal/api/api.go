package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lalaji/replenish/internal/api/handlers"
	"github.com/lalaji/replenish/internal/api/middleware"
	"github.com/lalaji/replenish/internal/service"
)

type Services struct {
	SimulationService *service.SimulationService
	ReportService     *service.ReportService
	InventoryService  *service.InventoryService
	OrderService      *service.OrderService
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.SimulationService != nil {
			simulationHandler := handlers.NewSimulationHandler(services.SimulationService)
			apiGroup.POST("/simulation/:type", simulationHandler.RunSimulation)
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			apiGroup.GET("/reports/:type", reportHandler.GetReport)
			apiGroup.GET("/inventory/stats", reportHandler.GetInventoryStats)
		}

		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", inventoryHandler.ListProducts)
				productGroup.POST("", inventoryHandler.CreateProduct)
				productGroup.GET("/:id", inventoryHandler.GetProduct)
				productGroup.POST("/:id/adjust", inventoryHandler.AdjustQuantity)
				productGroup.GET("/low-stock", inventoryHandler.LowStockProducts)
			}
			storeGroup := apiGroup.Group("/stores")
			{
				storeGroup.GET("", inventoryHandler.ListStores)
				storeGroup.POST("/active", inventoryHandler.SetActiveStore)
			}
		}

		if services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.OrderService)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.GET("", orderHandler.ListOrders)
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.POST("/:id/complete", orderHandler.CompleteOrder)
			}
		}
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
