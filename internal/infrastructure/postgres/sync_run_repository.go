package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

var _ repository.SyncRunRepository = (*SyncRunRepo)(nil)

// SyncRunRepo implementación de SyncRunRepository sobre PostgreSQL.
// Los contadores se guardan como JSONB en la columna stats.
type SyncRunRepo struct {
	q Querier
}

// NewSyncRunRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSyncRunRepository(q Querier) *SyncRunRepo {
	return &SyncRunRepo{q: q}
}

// Create registra la corrida (normalmente en estado running).
func (r *SyncRunRepo) Create(ctx context.Context, run *entity.SyncRun) error {
	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	query := `
		INSERT INTO sync_runs (id, connection_id, status, message, stats, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		run.ID, run.ConnectionID, run.Status, run.Message, stats, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// Finish cierra la corrida con su desenlace y contadores finales.
func (r *SyncRunRepo) Finish(ctx context.Context, id, status, message string, stats entity.SyncStats, at time.Time) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`UPDATE sync_runs SET status = $2, message = $3, stats = $4, finished_at = $5 WHERE id = $1`,
		id, status, message, raw, at,
	)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	return nil
}

// GetByID obtiene una corrida por ID.
func (r *SyncRunRepo) GetByID(ctx context.Context, id string) (*entity.SyncRun, error) {
	row := r.q.QueryRow(ctx,
		`SELECT id, connection_id, status, message, stats, started_at, finished_at FROM sync_runs WHERE id = $1`,
		id,
	)
	run, err := scanSyncRun(row)
	if err != nil {
		return nil, fmt.Errorf("get sync run: %w", err)
	}
	return run, nil
}

// ListByConnection lista corridas recientes de la conexión. limit <= 0 devuelve todas.
func (r *SyncRunRepo) ListByConnection(ctx context.Context, connectionID string, limit, offset int) ([]*entity.SyncRun, error) {
	query := `SELECT id, connection_id, status, message, stats, started_at, finished_at
		FROM sync_runs WHERE connection_id = $1 ORDER BY started_at DESC`
	args := []any{connectionID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// DeleteByConnection elimina el historial de corridas de la conexión.
func (r *SyncRunRepo) DeleteByConnection(ctx context.Context, connectionID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sync_runs WHERE connection_id = $1`, connectionID)
	if err != nil {
		return fmt.Errorf("delete sync runs by connection: %w", err)
	}
	return nil
}

func scanSyncRun(row pgx.Row) (*entity.SyncRun, error) {
	var run entity.SyncRun
	var raw []byte
	err := row.Scan(&run.ID, &run.ConnectionID, &run.Status, &run.Message, &raw, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &run.Stats); err != nil {
			return nil, fmt.Errorf("unmarshal stats: %w", err)
		}
	}
	return &run, nil
}
