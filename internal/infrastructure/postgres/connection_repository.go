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

var _ repository.ConnectionRepository = (*ConnectionRepo)(nil)

const connectionColumns = `id, shop_domain, platform, access_token, active, setup_complete,
	vendor_mode, approved_vendors, stale_at, last_sync_at, created_at, updated_at`

// ConnectionRepo implementación del puerto ConnectionRepository sobre PostgreSQL.
type ConnectionRepo struct {
	q Querier
}

// NewConnectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConnectionRepository(q Querier) *ConnectionRepo {
	return &ConnectionRepo{q: q}
}

func scanConnection(row pgx.Row) (*entity.Connection, error) {
	var c entity.Connection
	err := row.Scan(
		&c.ID, &c.ShopDomain, &c.Platform, &c.AccessToken, &c.Active, &c.SetupComplete,
		&c.VendorMode, &c.ApprovedVendors, &c.StaleAt, &c.LastSyncAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create persiste una conexión nueva (fin del OAuth).
func (r *ConnectionRepo) Create(ctx context.Context, c *entity.Connection) error {
	query := `
		INSERT INTO connections (id, shop_domain, platform, access_token, active, setup_complete, vendor_mode, approved_vendors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ShopDomain, c.Platform, c.AccessToken, c.Active, c.SetupComplete,
		c.VendorMode, c.ApprovedVendors, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert connection: %w", err)
	}
	return nil
}

// GetByID obtiene una conexión por ID.
func (r *ConnectionRepo) GetByID(ctx context.Context, id string) (*entity.Connection, error) {
	row := r.q.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	c, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	return c, nil
}

// GetByDomain obtiene una conexión por dominio de tienda.
func (r *ConnectionRepo) GetByDomain(ctx context.Context, shopDomain string) (*entity.Connection, error) {
	row := r.q.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE shop_domain = $1`, shopDomain)
	c, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("get connection by domain: %w", err)
	}
	return c, nil
}

// FirstActive devuelve la conexión activa más antigua.
func (r *ConnectionRepo) FirstActive(ctx context.Context) (*entity.Connection, error) {
	row := r.q.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE active ORDER BY created_at ASC LIMIT 1`)
	c, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("first active connection: %w", err)
	}
	return c, nil
}

// List lista todas las conexiones.
func (r *ConnectionRepo) List(ctx context.Context) ([]*entity.Connection, error) {
	rows, err := r.q.Query(ctx, `SELECT `+connectionColumns+` FROM connections ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()
	var list []*entity.Connection
	for rows.Next() {
		var c entity.Connection
		if err := rows.Scan(
			&c.ID, &c.ShopDomain, &c.Platform, &c.AccessToken, &c.Active, &c.SetupComplete,
			&c.VendorMode, &c.ApprovedVendors, &c.StaleAt, &c.LastSyncAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza credencial, flags y decisión de proveedores.
func (r *ConnectionRepo) Update(ctx context.Context, c *entity.Connection) error {
	query := `
		UPDATE connections
		SET access_token = $2, active = $3, setup_complete = $4, vendor_mode = $5, approved_vendors = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.AccessToken, c.Active, c.SetupComplete, c.VendorMode, c.ApprovedVendors, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update connection: %w", err)
	}
	return nil
}

// StampLastSync sella el cierre de una corrida exitosa y limpia stale_at.
func (r *ConnectionRepo) StampLastSync(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE connections SET last_sync_at = $2, stale_at = NULL, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("stamp last sync: %w", err)
	}
	return nil
}

// MarkStale marca la conexión como desactualizada (webhooks de producto/inventario).
func (r *ConnectionRepo) MarkStale(ctx context.Context, shopDomain string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE connections SET stale_at = $2, updated_at = now() WHERE shop_domain = $1 AND stale_at IS NULL`,
		shopDomain, at,
	)
	if err != nil {
		return fmt.Errorf("mark stale: %w", err)
	}
	return nil
}

// Deactivate limpia la credencial y desactiva (webhook app/uninstalled).
func (r *ConnectionRepo) Deactivate(ctx context.Context, shopDomain string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE connections SET access_token = '', active = false, updated_at = now() WHERE shop_domain = $1`,
		shopDomain,
	)
	if err != nil {
		return fmt.Errorf("deactivate connection: %w", err)
	}
	return nil
}

// Delete elimina la conexión. Las dependencias se borran antes, en orden,
// dentro de la misma transacción (ver TxRunner.PurgeConnection).
func (r *ConnectionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	return nil
}
