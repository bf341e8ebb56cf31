package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// InventoryReconciler trae las cantidades por ubicación de un producto y
// hace upsert de cada fila (producto, external id de ubicación).
// Si la cantidad almacenada ya es igual a la traída, la escritura se omite
// por completo: es contrato, no optimización, porque decide si los
// timestamps que alimentan las alertas aparentan cambiar.
type InventoryReconciler struct {
	gateway StoreGateway
	levels  repository.InventoryLevelRepository
}

// NewInventoryReconciler construye el reconciliador de inventario.
func NewInventoryReconciler(gateway StoreGateway, levels repository.InventoryLevelRepository) *InventoryReconciler {
	return &InventoryReconciler{gateway: gateway, levels: levels}
}

// Reconcile sincroniza el stock de un producto con referencia de inventario.
func (r *InventoryReconciler) Reconcile(ctx context.Context, conn *entity.Connection, product *entity.Product, stats *entity.SyncStats) error {
	if product.InventoryItemID == "" {
		return nil
	}

	remote, err := r.gateway.InventoryLevels(ctx, conn, product.InventoryItemID)
	if err != nil {
		return fmt.Errorf("inventario de %s: %w", product.SKU, err)
	}
	stats.APICalls++

	for _, rl := range remote {
		existing, err := r.levels.Get(ctx, product.ID, rl.LocationExternalID)
		if err != nil {
			return fmt.Errorf("leer nivel %s: %w", rl.LocationExternalID, err)
		}
		if existing != nil && existing.Quantity == rl.Available {
			continue
		}

		level := &entity.InventoryLevel{
			ProductID:          product.ID,
			LocationExternalID: rl.LocationExternalID,
			LocationName:       rl.LocationName,
			Quantity:           rl.Available,
			UpdatedAt:          time.Now(),
		}
		if err := r.levels.Upsert(ctx, level); err != nil {
			return fmt.Errorf("upsert nivel %s: %w", rl.LocationExternalID, err)
		}
		stats.InventoryUpdated++
	}
	return nil
}
