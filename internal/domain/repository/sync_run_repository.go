package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// SyncRunRepository registra el ciclo de vida de las corridas de sync para
// que el dashboard pueda leer el desenlace de forma asíncrona.
type SyncRunRepository interface {
	Create(ctx context.Context, run *entity.SyncRun) error
	Finish(ctx context.Context, id, status, message string, stats entity.SyncStats, at time.Time) error
	GetByID(ctx context.Context, id string) (*entity.SyncRun, error)
	ListByConnection(ctx context.Context, connectionID string, limit, offset int) ([]*entity.SyncRun, error)
	DeleteByConnection(ctx context.Context, connectionID string) error
}
