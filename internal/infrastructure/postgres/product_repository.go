package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, connection_id, external_id, inventory_item_id, sku, name, vendor,
	price, low_stock_threshold, archived, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.ConnectionID, &p.ExternalID, &p.InventoryItemID, &p.SKU, &p.Name, &p.Vendor,
		&p.Price, &p.LowStockThreshold, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto nuevo (una variante upstream).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, connection_id, external_id, inventory_item_id, sku, name, vendor, price, low_stock_threshold, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ConnectionID, p.ExternalID, p.InventoryItemID, p.SKU, p.Name, p.Vendor,
		p.Price, p.LowStockThreshold, p.Archived, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByExternalID busca por (conexión, external id): la llave primaria del reconciliador.
func (r *ProductRepo) GetByExternalID(ctx context.Context, connectionID, externalID string) (*entity.Product, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE connection_id = $1 AND external_id = $2`,
		connectionID, externalID,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product by external id: %w", err)
	}
	return p, nil
}

// GetBySKU busca por (conexión, sku): la llave secundaria del reconciliador.
func (r *ProductRepo) GetBySKU(ctx context.Context, connectionID, sku string) (*entity.Product, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE connection_id = $1 AND sku = $2`,
		connectionID, sku,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza los campos que sincroniza el reconciliador más el umbral.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET external_id = $2, inventory_item_id = $3, sku = $4, name = $5, vendor = $6, price = $7, low_stock_threshold = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ExternalID, p.InventoryItemID, p.SKU, p.Name, p.Vendor, p.Price, p.LowStockThreshold, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateThreshold cambia solo el umbral por defecto (acción del operador).
func (r *ProductRepo) UpdateThreshold(ctx context.Context, id string, threshold int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET low_stock_threshold = $2, updated_at = now() WHERE id = $1`,
		id, threshold,
	)
	if err != nil {
		return fmt.Errorf("update product threshold: %w", err)
	}
	return nil
}

// SetArchived archiva o desarchiva (acción del operador; el sync nunca borra).
func (r *ProductRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET archived = $2, updated_at = now() WHERE id = $1`,
		id, archived,
	)
	if err != nil {
		return fmt.Errorf("set product archived: %w", err)
	}
	return nil
}

// ListByConnection lista productos de la conexión. limit <= 0 devuelve todos.
func (r *ProductRepo) ListByConnection(ctx context.Context, connectionID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE connection_id = $1 ORDER BY name ASC`
	args := []any{connectionID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ListSyncable productos no archivados con referencia de inventario upstream.
func (r *ProductRepo) ListSyncable(ctx context.Context, connectionID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE connection_id = $1 AND NOT archived AND inventory_item_id <> '' ORDER BY sku ASC`,
		connectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list syncable products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// CountByConnection cuenta los productos de la conexión.
func (r *ProductRepo) CountByConnection(ctx context.Context, connectionID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE connection_id = $1`, connectionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// DeleteByConnection elimina todos los productos de la conexión (teardown).
func (r *ProductRepo) DeleteByConnection(ctx context.Context, connectionID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE connection_id = $1`, connectionID)
	if err != nil {
		return fmt.Errorf("delete products by connection: %w", err)
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.ConnectionID, &p.ExternalID, &p.InventoryItemID, &p.SKU, &p.Name, &p.Vendor,
			&p.Price, &p.LowStockThreshold, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
