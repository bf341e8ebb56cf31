package repository

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// InventoryLevelRepository define el puerto para el stock por
// (producto, ubicación upstream). El Upsert es idempotente; la evasión de
// escritura cuando la cantidad no cambió vive en el reconciliador.
type InventoryLevelRepository interface {
	Get(ctx context.Context, productID, locationExternalID string) (*entity.InventoryLevel, error)
	Upsert(ctx context.Context, level *entity.InventoryLevel) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLevel, error)
	UpdateThreshold(ctx context.Context, productID, locationExternalID string, threshold *int) error
	DeleteByConnection(ctx context.Context, connectionID string) error
}
