package usecase

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/domain/alerting"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// AlertUseCase consulta de alertas de stock bajo. Las transiciones las
// ejecutan el sync (open/resolved) y la aprobación de reposición (ordered);
// aquí solo se lee y se clasifica la severidad.
type AlertUseCase struct {
	alerts   repository.AlertRepository
	products repository.ProductRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alerts repository.AlertRepository, products repository.ProductRepository) *AlertUseCase {
	return &AlertUseCase{alerts: alerts, products: products}
}

// List lista alertas de la conexión con filtro opcional de estado.
func (uc *AlertUseCase) List(ctx context.Context, connectionID, status string, page dto.PageRequest) (*dto.AlertListResponse, error) {
	page.DefaultPage()
	alerts, err := uc.alerts.List(ctx, connectionID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AlertListResponse{
		Items: make([]dto.AlertResponse, 0, len(alerts)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, a := range alerts {
		item := toAlertResponse(a)
		if p, err := uc.products.GetByID(ctx, a.ProductID); err == nil && p != nil {
			item.SKU = p.SKU
			item.ProductName = p.Name
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:         a.ID,
		ProductID:  a.ProductID,
		Quantity:   a.Quantity,
		Threshold:  a.Threshold,
		Severity:   string(alerting.SeverityFor(a.Quantity, a.Threshold)),
		Status:     a.Status,
		OpenedAt:   a.OpenedAt,
		ResolvedAt: a.ResolvedAt,
	}
}
