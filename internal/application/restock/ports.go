package restock

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// TxRunner ejecuta el callback con repos atados a una misma transacción:
// crear la solicitud con sus líneas y cerrar marcando alertas caen juntos.
type TxRunner interface {
	RunRestock(ctx context.Context, fn func(
		restockRepo repository.RestockRequestRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// OrderSheetRenderer genera la hoja de pedido imprimible de una solicitud.
type OrderSheetRenderer interface {
	Render(req *entity.RestockRequest, shopDomain string) ([]byte, error)
}
