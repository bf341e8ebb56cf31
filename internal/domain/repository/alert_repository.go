package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para Alert.
// Create debe devolver domain.ErrDuplicate si ya existe una alerta open
// para el producto (índice único parcial): bajo corridas concurrentes la
// carrera se vuelve un no-op en lugar de un duplicado.
type AlertRepository interface {
	Create(ctx context.Context, a *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	GetOpenByProduct(ctx context.Context, productID string) (*entity.Alert, error)
	Resolve(ctx context.Context, id string, at time.Time) error
	// MarkOrdered pasa open -> ordered (la solicitud de reposición fue aprobada).
	MarkOrdered(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, connectionID, status string, limit, offset int) ([]*entity.Alert, error)
	ListOpenByConnection(ctx context.Context, connectionID string) ([]*entity.Alert, error)
	DeleteByConnection(ctx context.Context, connectionID string) error
}
