package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo implementación de InventoryLevelRepository sobre PostgreSQL.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// Get obtiene la fila de stock de un producto en una ubicación upstream.
func (r *InventoryLevelRepo) Get(ctx context.Context, productID, locationExternalID string) (*entity.InventoryLevel, error) {
	query := `
		SELECT product_id, location_external_id, location_name, quantity, threshold, updated_at
		FROM inventory_levels WHERE product_id = $1 AND location_external_id = $2`
	var l entity.InventoryLevel
	err := r.q.QueryRow(ctx, query, productID, locationExternalID).Scan(
		&l.ProductID, &l.LocationExternalID, &l.LocationName, &l.Quantity, &l.Threshold, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory level: %w", err)
	}
	return &l, nil
}

// Upsert inserta o actualiza la fila (producto, ubicación). No toca el
// override de umbral: ese campo es del operador, no del sync.
func (r *InventoryLevelRepo) Upsert(ctx context.Context, level *entity.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (product_id, location_external_id, location_name, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location_external_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, location_name = EXCLUDED.location_name, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		level.ProductID, level.LocationExternalID, level.LocationName, level.Quantity, level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory level: %w", err)
	}
	return nil
}

// ListByProduct lista las filas de stock del producto.
func (r *InventoryLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLevel, error) {
	query := `
		SELECT product_id, location_external_id, location_name, quantity, threshold, updated_at
		FROM inventory_levels WHERE product_id = $1 ORDER BY location_name ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLevel
	for rows.Next() {
		var l entity.InventoryLevel
		if err := rows.Scan(&l.ProductID, &l.LocationExternalID, &l.LocationName, &l.Quantity, &l.Threshold, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateThreshold fija o limpia el override de umbral de una ubicación.
func (r *InventoryLevelRepo) UpdateThreshold(ctx context.Context, productID, locationExternalID string, threshold *int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE inventory_levels SET threshold = $3 WHERE product_id = $1 AND location_external_id = $2`,
		productID, locationExternalID, threshold,
	)
	if err != nil {
		return fmt.Errorf("update level threshold: %w", err)
	}
	return nil
}

// DeleteByConnection elimina el stock de todos los productos de la conexión.
func (r *InventoryLevelRepo) DeleteByConnection(ctx context.Context, connectionID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM inventory_levels WHERE product_id IN (SELECT id FROM products WHERE connection_id = $1)`,
		connectionID,
	)
	if err != nil {
		return fmt.Errorf("delete inventory levels by connection: %w", err)
	}
	return nil
}
