package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, connection_id, product_id, quantity, threshold, status, opened_at, resolved_at`

// AlertRepo implementación de AlertRepository sobre PostgreSQL.
// El índice único parcial uq_alerts_open (product_id WHERE status='open')
// respalda el invariante de una sola alerta abierta por producto.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Acepta pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(&a.ID, &a.ConnectionID, &a.ProductID, &a.Quantity, &a.Threshold, &a.Status, &a.OpenedAt, &a.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserta una alerta. Devuelve domain.ErrDuplicate si ya hay una
// abierta para el producto: bajo corridas concurrentes gana el primero.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, connection_id, product_id, quantity, threshold, status, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ConnectionID, a.ProductID, a.Quantity, a.Threshold, a.Status, a.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	row := r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetOpenByProduct devuelve la alerta abierta del producto, si existe.
func (r *AlertRepo) GetOpenByProduct(ctx context.Context, productID string) (*entity.Alert, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE product_id = $1 AND status = 'open'`,
		productID,
	)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("get open alert: %w", err)
	}
	return a, nil
}

// Resolve pasa open -> resolved con timestamp de resolución.
func (r *AlertRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE alerts SET status = 'resolved', resolved_at = $2 WHERE id = $1 AND status = 'open'`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

// MarkOrdered pasa open -> ordered (reposición aprobada).
func (r *AlertRepo) MarkOrdered(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE alerts SET status = 'ordered', resolved_at = $2 WHERE id = $1 AND status = 'open'`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("mark alert ordered: %w", err)
	}
	return nil
}

// List lista alertas por conexión con filtro opcional de estado.
func (r *AlertRepo) List(ctx context.Context, connectionID, status string, limit, offset int) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE connection_id = $1`
	args := []any{connectionID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY opened_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// ListOpenByConnection alertas abiertas de la conexión (dashboard y reposición).
func (r *AlertRepo) ListOpenByConnection(ctx context.Context, connectionID string) ([]*entity.Alert, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE connection_id = $1 AND status = 'open' ORDER BY opened_at ASC`,
		connectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// DeleteByConnection elimina las alertas de la conexión (teardown).
func (r *AlertRepo) DeleteByConnection(ctx context.Context, connectionID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM alerts WHERE connection_id = $1`, connectionID)
	if err != nil {
		return fmt.Errorf("delete alerts by connection: %w", err)
	}
	return nil
}

func collectAlerts(rows pgx.Rows) ([]*entity.Alert, error) {
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.ConnectionID, &a.ProductID, &a.Quantity, &a.Threshold, &a.Status, &a.OpenedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
