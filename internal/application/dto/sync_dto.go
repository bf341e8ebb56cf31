package dto

import (
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// RunSyncRequest entrada de POST /api/sync/run. ConnectionID vacío usa la
// primera conexión activa.
type RunSyncRequest struct {
	ConnectionID string `json:"connection_id" validate:"omitempty,uuid"`
}

// RunSyncAccepted respuesta inmediata: la corrida sigue en segundo plano y
// su desenlace se consulta por el historial de corridas.
type RunSyncAccepted struct {
	ConnectionID string `json:"connection_id"`
	Status       string `json:"status"`
}

// SyncRunResponse desenlace de una corrida.
type SyncRunResponse struct {
	ID           string           `json:"id"`
	ConnectionID string           `json:"connection_id"`
	Status       string           `json:"status"`
	Message      string           `json:"message,omitempty"`
	Stats        entity.SyncStats `json:"stats"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   *time.Time       `json:"finished_at"`
}

// SyncRunListResponse historial de corridas.
type SyncRunListResponse struct {
	Items []SyncRunResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
