package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// ConnectionRepository define el puerto de persistencia para Connection (DIP).
type ConnectionRepository interface {
	Create(ctx context.Context, c *entity.Connection) error
	GetByID(ctx context.Context, id string) (*entity.Connection, error)
	GetByDomain(ctx context.Context, shopDomain string) (*entity.Connection, error)
	// FirstActive devuelve la conexión activa más antigua (trigger-sync sin id explícito).
	FirstActive(ctx context.Context) (*entity.Connection, error)
	List(ctx context.Context) ([]*entity.Connection, error)
	Update(ctx context.Context, c *entity.Connection) error
	// StampLastSync marca el cierre exitoso de una corrida y limpia StaleAt.
	StampLastSync(ctx context.Context, id string, at time.Time) error
	// MarkStale lo usan los webhooks de producto/inventario.
	MarkStale(ctx context.Context, shopDomain string, at time.Time) error
	// Deactivate limpia la credencial y desactiva (webhook app/uninstalled).
	Deactivate(ctx context.Context, shopDomain string) error
	Delete(ctx context.Context, id string) error
}
