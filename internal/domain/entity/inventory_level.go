package entity

import "time"

// InventoryLevel es el stock de un producto en una ubicación upstream.
// La identidad es (producto, external id de la ubicación); el nombre es solo
// presentación, dos ubicaciones con el mismo nombre no colisionan.
// El reconciliador de inventario solo escribe cuando la cantidad cambió.
type InventoryLevel struct {
	ProductID          string
	LocationExternalID string
	LocationName       string
	Quantity           int
	Threshold          *int // override por ubicación; nil = usar el del producto
	UpdatedAt          time.Time
}
