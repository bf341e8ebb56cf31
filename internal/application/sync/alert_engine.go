package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/alerting"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// AlertEngine aplica la máquina de estados de alertas una vez por producto
// al cerrar la reconciliación de inventario. Garantiza a lo sumo una alerta
// open por producto; re-ejecutar sin cambios upstream no escribe nada.
type AlertEngine struct {
	levels repository.InventoryLevelRepository
	alerts repository.AlertRepository
}

// NewAlertEngine construye el motor de alertas.
func NewAlertEngine(levels repository.InventoryLevelRepository, alerts repository.AlertRepository) *AlertEngine {
	return &AlertEngine{levels: levels, alerts: alerts}
}

// ReconcileProduct evalúa la fila de inventario que manda (mayor déficit) y
// abre o resuelve según corresponda. Un producto sin filas de stock no
// genera ni resuelve alertas.
func (e *AlertEngine) ReconcileProduct(ctx context.Context, conn *entity.Connection, product *entity.Product, stats *entity.SyncStats) error {
	rows, err := e.levels.ListByProduct(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("niveles de %s: %w", product.SKU, err)
	}
	qty, thr, ok := alerting.WorstRow(rows, product.LowStockThreshold)
	if !ok {
		return nil
	}

	open, err := e.alerts.GetOpenByProduct(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("alerta abierta de %s: %w", product.SKU, err)
	}

	now := time.Now()
	switch alerting.Evaluate(qty, thr, open != nil) {
	case alerting.OpenAlert:
		alert := &entity.Alert{
			ID:           uuid.New().String(),
			ConnectionID: conn.ID,
			ProductID:    product.ID,
			Quantity:     qty,
			Threshold:    thr,
			Status:       entity.AlertStatusOpen,
			OpenedAt:     now,
		}
		if err := e.alerts.Create(ctx, alert); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// otra corrida concurrente abrió primero; el índice único
				// parcial convierte la carrera en un no-op
				return nil
			}
			return fmt.Errorf("abrir alerta de %s: %w", product.SKU, err)
		}
		stats.AlertsCreated++

	case alerting.ResolveAlert:
		if err := e.alerts.Resolve(ctx, open.ID, now); err != nil {
			return fmt.Errorf("resolver alerta de %s: %w", product.SKU, err)
		}
		stats.AlertsResolved++
	}
	return nil
}
