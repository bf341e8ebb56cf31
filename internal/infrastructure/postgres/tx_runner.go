package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRestock inicia una transacción con los repos del flujo de reposición
// atados a la tx: crear solicitud con líneas y cerrar solicitud marcando
// alertas como ordered caen o se confirman juntos.
func (r *TxRunner) RunRestock(ctx context.Context, fn func(
	restockRepo repository.RestockRequestRepository,
	alertRepo repository.AlertRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	restockRepo := NewRestockRequestRepository(tx)
	alertRepo := NewAlertRepository(tx)

	if err := fn(restockRepo, alertRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PurgeConnection borra la conexión y todo lo derivado de ella en una sola
// transacción. El orden respeta las FKs: alertas y stock antes que productos,
// productos antes que la conexión.
func (r *TxRunner) PurgeConnection(ctx context.Context, connectionID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	alertRepo := NewAlertRepository(tx)
	levelRepo := NewInventoryLevelRepository(tx)
	restockRepo := NewRestockRequestRepository(tx)
	runRepo := NewSyncRunRepository(tx)
	productRepo := NewProductRepository(tx)
	connRepo := NewConnectionRepository(tx)

	if err := alertRepo.DeleteByConnection(ctx, connectionID); err != nil {
		return err
	}
	if err := levelRepo.DeleteByConnection(ctx, connectionID); err != nil {
		return err
	}
	if err := restockRepo.DeleteByConnection(ctx, connectionID); err != nil {
		return err
	}
	if err := runRepo.DeleteByConnection(ctx, connectionID); err != nil {
		return err
	}
	if err := productRepo.DeleteByConnection(ctx, connectionID); err != nil {
		return err
	}
	if err := connRepo.Delete(ctx, connectionID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
