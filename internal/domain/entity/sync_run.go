package entity

import "time"

// Estados terminales de una corrida de sincronización.
const (
	SyncRunRunning   = "running"
	SyncRunCompleted = "completed"
	SyncRunFailed    = "failed"
)

// SyncStats contadores agregados de una corrida.
type SyncStats struct {
	Processed        int `json:"processed"`         // variantes upstream recorridas
	Created          int `json:"created"`           // productos nuevos
	Updated          int `json:"updated"`           // productos actualizados
	Conflicts        int `json:"conflicts"`         // colisiones SKU/external id señaladas
	InventoryUpdated int `json:"inventory_updated"` // filas de stock realmente escritas
	AlertsCreated    int `json:"alerts_created"`
	AlertsResolved   int `json:"alerts_resolved"`
	APICalls         int `json:"api_calls"`
	ItemErrors       int `json:"item_errors"` // fallas por producto toleradas
}

// SyncRun registra el resultado de una corrida para consulta asíncrona
// desde el dashboard. Message guarda el error cuando Status es failed.
type SyncRun struct {
	ID           string
	ConnectionID string
	Status       string
	Message      string
	Stats        SyncStats
	StartedAt    time.Time
	FinishedAt   *time.Time
}
