package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRestockRequest entrada para crear una solicitud de reposición en draft.
type CreateRestockRequest struct {
	ConnectionID string             `json:"connection_id" validate:"required,uuid"`
	Notes        string             `json:"notes" validate:"omitempty,max=1000"`
	Items        []RestockItemInput `json:"items" validate:"required,min=1,dive"`
}

// RestockItemInput línea solicitada.
type RestockItemInput struct {
	ProductID         string `json:"product_id" validate:"required,uuid"`
	RequestedQuantity int    `json:"requested_quantity" validate:"required,min=1"`
}

// RestockItemResponse línea con snapshot de producto y costo estimado.
type RestockItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CurrentQuantity   int             `json:"current_quantity"`
	RequestedQuantity int             `json:"requested_quantity"`
	ApprovedQuantity  *int            `json:"approved_quantity"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

// RestockResponse solicitud completa. Token no se expone aquí: la URL de
// aprobación solo sale al enviar.
type RestockResponse struct {
	ID             string                `json:"id"`
	ConnectionID   string                `json:"connection_id"`
	Status         string                `json:"status"`
	Notes          string                `json:"notes"`
	Items          []RestockItemResponse `json:"items"`
	EstimatedTotal decimal.Decimal       `json:"estimated_total"`
	TokenExpiresAt *time.Time            `json:"token_expires_at"`
	CreatedAt      time.Time             `json:"created_at"`
	SentAt         *time.Time            `json:"sent_at"`
	ProcessedAt    *time.Time            `json:"processed_at"`
}

// RestockListResponse listado sin líneas.
type RestockListResponse struct {
	Items []RestockResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SendRestockResponse resultado de enviar: el magic link y su vencimiento.
type SendRestockResponse struct {
	ApprovalURL string    `json:"approval_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ProcessRestockRequest decisión del retailer vía magic link.
type ProcessRestockRequest struct {
	Action string                `json:"action" validate:"required,oneof=approve reject"`
	Items  []RestockItemDecision `json:"items" validate:"omitempty,dive"`
}

// RestockItemDecision cantidad aprobada por línea; omitida hereda la solicitada.
type RestockItemDecision struct {
	ItemID           string `json:"item_id" validate:"required,uuid"`
	ApprovedQuantity int    `json:"approved_quantity" validate:"min=0"`
}
