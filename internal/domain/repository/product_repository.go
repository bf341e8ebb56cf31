package repository

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El reconciliador busca por external id primero y por SKU después; ambos
// pares (connection, external_id) y (connection, sku) son únicos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByExternalID(ctx context.Context, connectionID, externalID string) (*entity.Product, error)
	GetBySKU(ctx context.Context, connectionID, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	UpdateThreshold(ctx context.Context, id string, threshold int) error
	SetArchived(ctx context.Context, id string, archived bool) error
	ListByConnection(ctx context.Context, connectionID string, limit, offset int) ([]*entity.Product, error)
	// ListSyncable devuelve los productos no archivados de la conexión con
	// referencia de inventario upstream (candidatos del reconciliador de stock).
	ListSyncable(ctx context.Context, connectionID string) ([]*entity.Product, error)
	CountByConnection(ctx context.Context, connectionID string) (int, error)
	DeleteByConnection(ctx context.Context, connectionID string) error
}
