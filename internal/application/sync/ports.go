package sync

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// RemoteVariant una variante upstream aplanada: trae el título del producto
// padre para derivar el nombre interno sin volver a pedirlo.
type RemoteVariant struct {
	ExternalID      string
	ProductTitle    string
	VariantTitle    string
	SKU             string
	Vendor          string
	Price           decimal.Decimal
	InventoryItemID string
}

// RemotePage una página de variantes con el cursor para la siguiente.
type RemotePage struct {
	Variants    []RemoteVariant
	EndCursor   string
	HasNextPage bool
}

// RemoteLevel cantidad "available" en una ubicación upstream.
type RemoteLevel struct {
	LocationExternalID string
	LocationName       string
	Available          int
}

// StoreGateway puerto de salida hacia la plataforma remota (DIP). La
// implementación concreta vive en infrastructure/shopify; para tests se
// inyecta un fake en memoria.
type StoreGateway interface {
	// ProductPage trae una página de variantes aplicando el filtro de
	// proveedores server-side ("" = sin filtro).
	ProductPage(ctx context.Context, conn *entity.Connection, filter, cursor string, pageSize int) (*RemotePage, error)
	// InventoryLevels trae las cantidades "available" por ubicación para un
	// inventory item. Otras canastas de cantidad no son autoritativas.
	InventoryLevels(ctx context.Context, conn *entity.Connection, inventoryItemID string) ([]RemoteLevel, error)
	// Vendors lista los proveedores distintos de la tienda (setup del alcance).
	Vendors(ctx context.Context, conn *entity.Connection) ([]string, error)
}
