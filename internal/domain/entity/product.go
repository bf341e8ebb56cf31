package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una variante upstream como registro interno propio:
// cada variante de Shopify se materializa como una fila, nunca el producto
// padre. (connection, external id) y (connection, sku) son únicos.
// El reconciliador crea y actualiza; el archivado es acción del operador y
// el borrado solo ocurre al desmontar la conexión.
type Product struct {
	ID                string
	ConnectionID      string
	ExternalID        string // GID de la variante en la plataforma
	InventoryItemID   string // referencia de inventario upstream; vacío = sin tracking
	SKU               string
	Name              string
	Vendor            string
	Price             decimal.Decimal
	LowStockThreshold int // umbral por defecto; InventoryLevel puede sobreescribirlo
	Archived          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
