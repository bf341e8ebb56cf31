package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// RestockRequestRepository define el puerto para solicitudes de reposición
// y sus líneas. CreateWithItems debe ser atómico (se implementa dentro de
// una transacción vía TxRunner).
type RestockRequestRepository interface {
	CreateWithItems(ctx context.Context, req *entity.RestockRequest) error
	GetByID(ctx context.Context, id string) (*entity.RestockRequest, error)
	// GetByToken busca por magic token e incluye las líneas. La validación de
	// vencimiento/estado es del caso de uso, no del repositorio.
	GetByToken(ctx context.Context, token string) (*entity.RestockRequest, error)
	List(ctx context.Context, connectionID string, limit, offset int) ([]*entity.RestockRequest, error)
	// MarkSent acuña el token: draft -> pending con vencimiento.
	MarkSent(ctx context.Context, id, token string, expiresAt, sentAt time.Time) error
	// Process cierra la solicitud (approved|rejected) y persiste las
	// cantidades aprobadas por línea.
	Process(ctx context.Context, id, status string, approved map[string]int, at time.Time) error
	DeleteByConnection(ctx context.Context, connectionID string) error
}
