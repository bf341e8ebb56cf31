package entity

import "time"

// Estados de una alerta de stock bajo.
// open -> resolved cuando la cantidad vuelve a superar el umbral.
// open -> ordered cuando la solicitud de reposición asociada fue aprobada.
// Una fila resolved/ordered no reabre; una condición nueva crea otra fila.
const (
	AlertStatusOpen     = "open"
	AlertStatusResolved = "resolved"
	AlertStatusOrdered  = "ordered"
)

// Alert captura una condición de stock bajo para un producto.
// Invariante: a lo sumo una fila open por producto (índice único parcial).
// Quantity y Threshold son los valores al momento de abrir.
type Alert struct {
	ID           string
	ConnectionID string
	ProductID    string
	Quantity     int
	Threshold    int
	Status       string
	OpenedAt     time.Time
	ResolvedAt   *time.Time
}
