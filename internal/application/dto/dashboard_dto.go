package dto

import "time"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary: los KPIs del
// panel principal en una sola llamada.
type DashboardSummaryDTO struct {
	ConnectionID    string     `json:"connection_id"`
	ShopDomain      string     `json:"shop_domain"`
	Stale           bool       `json:"stale"`
	LastSyncAt      *time.Time `json:"last_sync_at"`
	Products        int        `json:"products"`
	OpenAlerts      int        `json:"open_alerts"`
	PendingRestocks int        `json:"pending_restocks"`

	// Alertas abiertas agrupadas por banda de severidad.
	AlertsBySeverity map[string]int `json:"alerts_by_severity"`

	// Última corrida de sync, si existe.
	LastRun *SyncRunResponse `json:"last_run"`
}
