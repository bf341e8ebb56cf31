package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

var _ repository.RestockRequestRepository = (*RestockRequestRepo)(nil)

const restockColumns = `id, connection_id, status, token, token_expires_at, notes,
	created_at, updated_at, sent_at, processed_at`

// RestockRequestRepo implementación de RestockRequestRepository sobre PostgreSQL.
// CreateWithItems y Process son atómicos cuando el Querier es una transacción
// (ver TxRunner.RunRestock).
type RestockRequestRepo struct {
	q Querier
}

// NewRestockRequestRepository construye el adaptador. Acepta pool o tx (Querier).
func NewRestockRequestRepository(q Querier) *RestockRequestRepo {
	return &RestockRequestRepo{q: q}
}

// CreateWithItems inserta la solicitud y sus líneas.
func (r *RestockRequestRepo) CreateWithItems(ctx context.Context, req *entity.RestockRequest) error {
	query := `
		INSERT INTO restock_requests (id, connection_id, status, token, token_expires_at, notes, created_at, updated_at, sent_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.ConnectionID, req.Status, req.Token, req.TokenExpiresAt, req.Notes,
		req.CreatedAt, req.UpdatedAt, req.SentAt, req.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert restock request: %w", err)
	}
	for i := range req.Items {
		it := &req.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO restock_request_items (id, request_id, product_id, sku, product_name, unit_price, current_quantity, requested_quantity, approved_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.RequestID, it.ProductID, it.SKU, it.ProductName, it.UnitPrice,
			it.CurrentQuantity, it.RequestedQuantity, it.ApprovedQuantity,
		)
		if err != nil {
			return fmt.Errorf("insert restock item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una solicitud con sus líneas.
func (r *RestockRequestRepo) GetByID(ctx context.Context, id string) (*entity.RestockRequest, error) {
	row := r.q.QueryRow(ctx, `SELECT `+restockColumns+` FROM restock_requests WHERE id = $1`, id)
	return r.hydrate(ctx, row)
}

// GetByToken busca por magic token e incluye las líneas.
func (r *RestockRequestRepo) GetByToken(ctx context.Context, token string) (*entity.RestockRequest, error) {
	row := r.q.QueryRow(ctx, `SELECT `+restockColumns+` FROM restock_requests WHERE token = $1`, token)
	return r.hydrate(ctx, row)
}

func (r *RestockRequestRepo) hydrate(ctx context.Context, row pgx.Row) (*entity.RestockRequest, error) {
	req, err := scanRestockRequest(row)
	if err != nil {
		return nil, fmt.Errorf("get restock request: %w", err)
	}
	if req == nil {
		return nil, nil
	}
	items, err := r.listItems(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	req.Items = items
	return req, nil
}

func (r *RestockRequestRepo) listItems(ctx context.Context, requestID string) ([]entity.RestockRequestItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, product_id, sku, product_name, unit_price, current_quantity, requested_quantity, approved_quantity
		FROM restock_request_items WHERE request_id = $1 ORDER BY sku ASC`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("list restock items: %w", err)
	}
	defer rows.Close()
	var items []entity.RestockRequestItem
	for rows.Next() {
		var it entity.RestockRequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.ProductID, &it.SKU, &it.ProductName,
			&it.UnitPrice, &it.CurrentQuantity, &it.RequestedQuantity, &it.ApprovedQuantity); err != nil {
			return nil, fmt.Errorf("scan restock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List lista solicitudes de la conexión sin líneas (listado del dashboard).
func (r *RestockRequestRepo) List(ctx context.Context, connectionID string, limit, offset int) ([]*entity.RestockRequest, error) {
	query := `SELECT ` + restockColumns + ` FROM restock_requests WHERE connection_id = $1 ORDER BY created_at DESC`
	args := []any{connectionID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.RestockRequest
	for rows.Next() {
		req, err := scanRestockRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restock request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// MarkSent acuña el token: draft -> pending con vencimiento.
func (r *RestockRequestRepo) MarkSent(ctx context.Context, id, token string, expiresAt, sentAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE restock_requests
		SET status = 'pending', token = $2, token_expires_at = $3, sent_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'draft'`,
		id, token, expiresAt, sentAt,
	)
	if err != nil {
		return fmt.Errorf("mark restock sent: %w", err)
	}
	return nil
}

// Process cierra la solicitud y persiste las cantidades aprobadas por línea.
// El guard de estado pending hace la transición de una sola vía también a
// nivel SQL.
func (r *RestockRequestRepo) Process(ctx context.Context, id, status string, approved map[string]int, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE restock_requests SET status = $2, processed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, status, at,
	)
	if err != nil {
		return fmt.Errorf("process restock request: %w", err)
	}
	for itemID, qty := range approved {
		_, err := r.q.Exec(ctx,
			`UPDATE restock_request_items SET approved_quantity = $3 WHERE id = $1 AND request_id = $2`,
			itemID, id, qty,
		)
		if err != nil {
			return fmt.Errorf("update approved quantity: %w", err)
		}
	}
	return nil
}

// DeleteByConnection elimina solicitudes y líneas de la conexión.
func (r *RestockRequestRepo) DeleteByConnection(ctx context.Context, connectionID string) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM restock_request_items
		WHERE request_id IN (SELECT id FROM restock_requests WHERE connection_id = $1)`,
		connectionID,
	)
	if err != nil {
		return fmt.Errorf("delete restock items by connection: %w", err)
	}
	_, err = r.q.Exec(ctx, `DELETE FROM restock_requests WHERE connection_id = $1`, connectionID)
	if err != nil {
		return fmt.Errorf("delete restock requests by connection: %w", err)
	}
	return nil
}

func scanRestockRequest(row pgx.Row) (*entity.RestockRequest, error) {
	var req entity.RestockRequest
	err := row.Scan(
		&req.ID, &req.ConnectionID, &req.Status, &req.Token, &req.TokenExpiresAt, &req.Notes,
		&req.CreatedAt, &req.UpdatedAt, &req.SentAt, &req.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}
