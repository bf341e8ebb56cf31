package dto

import "time"

// AlertResponse salida de una alerta de stock bajo. Severity se calcula al
// leer con la cantidad y umbral capturados al abrir.
type AlertResponse struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"product_id"`
	SKU         string     `json:"sku"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	Threshold   int        `json:"threshold"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	OpenedAt    time.Time  `json:"opened_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
