package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto (una variante upstream).
type ProductResponse struct {
	ID                string          `json:"id"`
	ExternalID        string          `json:"external_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Vendor            string          `json:"vendor"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Archived          bool            `json:"archived"`
	TotalQuantity     int             `json:"total_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InventoryLevelResponse stock de un producto en una ubicación.
type InventoryLevelResponse struct {
	LocationExternalID string    `json:"location_external_id"`
	LocationName       string    `json:"location_name"`
	Quantity           int       `json:"quantity"`
	Threshold          *int      `json:"threshold"`
	EffectiveThreshold int       `json:"effective_threshold"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProductDetailResponse producto con sus filas de stock.
type ProductDetailResponse struct {
	ProductResponse
	Levels []InventoryLevelResponse `json:"levels"`
}

// UpdateProductRequest ajustes del operador; los campos nil no se tocan.
type UpdateProductRequest struct {
	LowStockThreshold *int  `json:"low_stock_threshold" validate:"omitempty,min=0"`
	Archived          *bool `json:"archived"`
}

// UpdateLevelThresholdRequest fija o limpia (null) el override de una ubicación.
type UpdateLevelThresholdRequest struct {
	Threshold *int `json:"threshold" validate:"omitempty,min=0"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
