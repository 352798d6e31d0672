package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"matflow/internal/caching"
	"matflow/internal/config"
	"matflow/internal/handlers"
	"matflow/internal/jobs"
	"matflow/internal/jobs/background"
	"matflow/internal/repositories"
	"matflow/internal/services"
	"matflow/pkg/database"
)

func main() {
	cfg, err := config.Load(os.Getenv("MATFLOW_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("MATFLOW_POSTGRES_DSN is required")
	}

	// Database connection pool
	pool, err := database.NewPool(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create repositories
	materialRepo := repositories.NewMaterialRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	movementRepo := repositories.NewMovementRepo(pool)
	bomRepo := repositories.NewBOMRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Create services
	catalogSvc := services.NewCatalogService(materialRepo, cacheSvc)
	validationSvc := services.NewValidationService(catalogSvc)
	inventorySvc := services.NewInventoryService(inventoryRepo, materialRepo, cacheSvc)
	bomSvc := services.NewBOMService(bomRepo, materialRepo)
	orderSvc := services.NewOrderService(orderRepo, materialRepo)
	demandSvc := services.NewDemandService(bomSvc, inventoryRepo, orderRepo, materialRepo)

	// Create handlers
	materialHandlers := handlers.NewMaterialHandlers(catalogSvc, validationSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc, movementRepo)
	bomHandlers := handlers.NewBOMHandlers(bomSvc, demandSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, inventorySvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	reorderScan := jobs.NewReorderScanService(inventoryRepo, materialRepo, demandSvc)
	scheduler := background.NewJobScheduler(reorderScan, cacheSvc, cfg.Jobs.ReorderScanInterval)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	v1 := e.Group("/v1")

	// Material catalog
	v1.GET("/materials", materialHandlers.ListMaterials)
	v1.GET("/materials/:id", materialHandlers.GetMaterial)
	v1.DELETE("/materials/:id", materialHandlers.DeleteMaterial)
	v1.POST("/materials/import", materialHandlers.ImportMaterials)
	v1.GET("/materials/:id/validate-thickness", materialHandlers.ValidateThickness)

	// Warehouse inventory
	v1.POST("/inventory", inventoryHandlers.AddToWarehouse)
	v1.GET("/inventory", inventoryHandlers.ListInventory)
	v1.GET("/inventory/status/:class", inventoryHandlers.ListInventoryByStatus)
	v1.GET("/inventory/:materialId", inventoryHandlers.GetInventory)
	v1.PUT("/inventory/:materialId/stock", inventoryHandlers.SetStock)
	v1.POST("/inventory/:materialId/adjust", inventoryHandlers.AdjustStock)
	v1.POST("/inventory/:materialId/reserve", inventoryHandlers.ReserveStock)
	v1.POST("/inventory/:materialId/release", inventoryHandlers.ReleaseStock)
	v1.DELETE("/inventory/:materialId", inventoryHandlers.RemoveFromWarehouse)
	v1.GET("/inventory/:materialId/reconcile", inventoryHandlers.ReconcileMovements)

	// Movement ledger
	v1.GET("/movements", inventoryHandlers.ListMovements)

	// Bill of materials
	v1.PUT("/elements/:elementId/bom", bomHandlers.AttachBOM)
	v1.GET("/elements/:elementId/bom", bomHandlers.GetElementBOM)
	v1.GET("/projects/:projectId/bom/consolidated", bomHandlers.GetConsolidatedBOM)
	v1.POST("/projects/:projectId/orders/generate", bomHandlers.GenerateOrders)

	// Material orders
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders", orderHandlers.ListOrders)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	v1.PUT("/orders/:id/tracking", orderHandlers.SetTracking)
	v1.POST("/orders/:id/cancel", orderHandlers.CancelOrder)

	log.Fatal(e.Start(fmt.Sprintf(":%d", cfg.HTTP.Port)))
}
