package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de reposición. Las transiciones son de una sola
// vía: draft -> pending -> approved | rejected. No hay des-aprobación.
const (
	RestockStatusDraft    = "draft"
	RestockStatusPending  = "pending"
	RestockStatusApproved = "approved"
	RestockStatusRejected = "rejected"
)

// RestockRequest es el flujo de aprobación agencia -> retailer, accesible
// por un magic token de un solo uso con vencimiento. El token se acuña al
// enviar (draft -> pending); un token vencido o una solicitud ya procesada
// rechazan cualquier cambio de estado posterior.
type RestockRequest struct {
	ID             string
	ConnectionID   string
	Status         string
	Token          string // vacío mientras está en draft
	TokenExpiresAt *time.Time
	Notes          string
	Items          []RestockRequestItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SentAt         *time.Time
	ProcessedAt    *time.Time
}

// RestockRequestItem es una línea de la solicitud. SKU, nombre y precio se
// copian del producto al crear (snapshot, igual que una línea de factura).
type RestockRequestItem struct {
	ID                string
	RequestID         string
	ProductID         string
	SKU               string
	ProductName       string
	UnitPrice         decimal.Decimal
	CurrentQuantity   int
	RequestedQuantity int
	ApprovedQuantity  *int // nil hasta que el retailer decide
}

// EstimatedCost devuelve el costo estimado de la línea (precio x solicitado).
func (i RestockRequestItem) EstimatedCost() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.RequestedQuantity)))
}
