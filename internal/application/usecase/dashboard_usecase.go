package usecase

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/alerting"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen del panel principal en una sola llamada.
type DashboardUseCase struct {
	connections repository.ConnectionRepository
	products    repository.ProductRepository
	alerts      repository.AlertRepository
	runs        repository.SyncRunRepository
	requests    repository.RestockRequestRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	connections repository.ConnectionRepository,
	products repository.ProductRepository,
	alerts repository.AlertRepository,
	runs repository.SyncRunRepository,
	requests repository.RestockRequestRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		connections: connections,
		products:    products,
		alerts:      alerts,
		runs:        runs,
		requests:    requests,
	}
}

// Summary KPIs de la conexión: productos, alertas abiertas por severidad,
// solicitudes pendientes y última corrida. ConnectionID vacío usa la primera
// conexión activa.
func (uc *DashboardUseCase) Summary(ctx context.Context, connectionID string) (*dto.DashboardSummaryDTO, error) {
	var (
		conn *entity.Connection
		err  error
	)
	if connectionID == "" {
		conn, err = uc.connections.FirstActive(ctx)
	} else {
		conn, err = uc.connections.GetByID(ctx, connectionID)
	}
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, domain.ErrConnectionNotFound
	}

	out := &dto.DashboardSummaryDTO{
		ConnectionID:     conn.ID,
		ShopDomain:       conn.ShopDomain,
		Stale:            conn.StaleAt != nil,
		LastSyncAt:       conn.LastSyncAt,
		AlertsBySeverity: map[string]int{},
	}

	out.Products, err = uc.products.CountByConnection(ctx, conn.ID)
	if err != nil {
		return nil, err
	}

	open, err := uc.alerts.ListOpenByConnection(ctx, conn.ID)
	if err != nil {
		return nil, err
	}
	out.OpenAlerts = len(open)
	for _, a := range open {
		sev := string(alerting.SeverityFor(a.Quantity, a.Threshold))
		out.AlertsBySeverity[sev]++
	}

	requests, err := uc.requests.List(ctx, conn.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.Status == entity.RestockStatusPending {
			out.PendingRestocks++
		}
	}

	runs, err := uc.runs.ListByConnection(ctx, conn.ID, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 {
		last := toSyncRunResponse(runs[0])
		out.LastRun = &last
	}
	return out, nil
}

func toSyncRunResponse(run *entity.SyncRun) dto.SyncRunResponse {
	return dto.SyncRunResponse{
		ID:           run.ID,
		ConnectionID: run.ConnectionID,
		Status:       run.Status,
		Message:      run.Message,
		Stats:        run.Stats,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}
