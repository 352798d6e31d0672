package jobs

import (
	"context"
	"log"

	"matflow/internal/models"
	"matflow/internal/repositories"
	"matflow/internal/services"

	"github.com/google/uuid"
)

// ReorderScanService sweeps the warehouse for materials at or below their
// reorder point and turns the findings into replenishment orders.
type ReorderScanService struct {
	inventoryRepo repositories.InventoryRepository
	materialRepo  repositories.MaterialRepository
	demandService services.DemandService
}

// ReorderAlert is one low-stock finding from a scan.
type ReorderAlert struct {
	MaterialID   uuid.UUID
	MaterialCode string
	MaterialName string
	Available    int
	ReorderPoint int
	Status       models.StockStatus
}

func NewReorderScanService(inventoryRepo repositories.InventoryRepository, materialRepo repositories.MaterialRepository,
	demandService services.DemandService) *ReorderScanService {
	return &ReorderScanService{
		inventoryRepo: inventoryRepo,
		materialRepo:  materialRepo,
		demandService: demandService,
	}
}

// CheckLowStock collects every material whose available quantity classifies
// as low-stock or out-of-stock.
func (s *ReorderScanService) CheckLowStock(ctx context.Context) ([]ReorderAlert, error) {
	records, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		log.Printf("Failed to list inventory for reorder scan: %v", err)
		return nil, err
	}

	var alerts []ReorderAlert
	for _, rec := range records {
		status := rec.StockStatus()
		if status != models.StockStatusLow && status != models.StockStatusOut {
			continue
		}

		alert := ReorderAlert{
			MaterialID:   rec.MaterialID,
			Available:    rec.AvailableQuantity,
			ReorderPoint: rec.ReorderPoint,
			Status:       status,
		}
		// Material names are decoration here; a missing catalog row must not
		// hide the alert.
		if material, err := s.materialRepo.GetByID(ctx, rec.MaterialID); err == nil {
			alert.MaterialCode = material.Code
			alert.MaterialName = material.Name
		} else {
			log.Printf("Failed to resolve material %s for alert: %v", rec.MaterialID.String(), err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// LogAlerts writes the scan findings to the log.
func (s *ReorderScanService) LogAlerts(alerts []ReorderAlert) {
	if len(alerts) == 0 {
		log.Println("No reorder alerts to log")
		return
	}

	log.Printf("Reorder alerts (%d materials):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- %s '%s' is %s: %d available (reorder point: %d)",
			alert.MaterialCode,
			alert.MaterialName,
			alert.Status,
			alert.Available,
			alert.ReorderPoint)
	}
}

// ScheduledScan runs one full scan cycle: collect alerts, log them, then
// generate top-up orders for materials without an open order.
func (s *ReorderScanService) ScheduledScan(ctx context.Context) error {
	log.Println("Starting scheduled reorder scan")

	alerts, err := s.CheckLowStock(ctx)
	if err != nil {
		log.Printf("Scheduled reorder scan failed: %v", err)
		return err
	}
	s.LogAlerts(alerts)

	if len(alerts) > 0 {
		orders, err := s.demandService.GenerateReplenishment(ctx, "reorder-scan")
		if err != nil {
			log.Printf("Replenishment generation failed: %v", err)
			return err
		}
		log.Printf("Generated %d replenishment orders", len(orders))
	}

	log.Println("Scheduled reorder scan completed successfully")
	return nil
}
