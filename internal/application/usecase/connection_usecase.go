package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// PurgeRunner borra una conexión y todo lo derivado en una transacción.
type PurgeRunner interface {
	PurgeConnection(ctx context.Context, connectionID string) error
}

// ConnectionUseCase gestión de conexiones de tienda y del alcance de
// proveedores que completa el setup.
type ConnectionUseCase struct {
	repo    repository.ConnectionRepository
	gateway appsync.StoreGateway
	purge   PurgeRunner
}

// NewConnectionUseCase construye el caso de uso.
func NewConnectionUseCase(repo repository.ConnectionRepository, gateway appsync.StoreGateway, purge PurgeRunner) *ConnectionUseCase {
	return &ConnectionUseCase{repo: repo, gateway: gateway, purge: purge}
}

// List lista todas las conexiones.
func (uc *ConnectionUseCase) List(ctx context.Context) ([]dto.ConnectionResponse, error) {
	conns, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConnectionResponse, 0, len(conns))
	for _, c := range conns {
		out = append(out, toConnectionResponse(c))
	}
	return out, nil
}

// Get obtiene una conexión por ID.
func (uc *ConnectionUseCase) Get(ctx context.Context, id string) (*dto.ConnectionResponse, error) {
	conn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, nil
	}
	resp := toConnectionResponse(conn)
	return &resp, nil
}

// Vendors lista los proveedores distintos reportados por la tienda, para que
// el operador decida el alcance.
func (uc *ConnectionUseCase) Vendors(ctx context.Context, id string) (*dto.VendorListResponse, error) {
	conn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, domain.ErrConnectionNotFound
	}
	if !conn.Active {
		return nil, domain.ErrConnectionInactive
	}
	vendors, err := uc.gateway.Vendors(ctx, conn)
	if err != nil {
		return nil, err
	}
	sort.Strings(vendors)
	return &dto.VendorListResponse{Vendors: vendors}, nil
}

// ApproveVendors registra la decisión de alcance y marca el setup completo.
// El modo selected exige al menos un proveedor no vacío.
func (uc *ConnectionUseCase) ApproveVendors(ctx context.Context, id string, in dto.VendorApprovalRequest) (*dto.ConnectionResponse, error) {
	conn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, domain.ErrConnectionNotFound
	}

	var vendors []string
	for _, v := range in.Vendors {
		if v = strings.TrimSpace(v); v != "" {
			vendors = append(vendors, v)
		}
	}
	switch in.Mode {
	case entity.VendorModeAll, entity.VendorModeNone:
		vendors = nil
	case entity.VendorModeSelected:
		if len(vendors) == 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	conn.VendorMode = in.Mode
	conn.ApprovedVendors = vendors
	conn.SetupComplete = true
	conn.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, conn); err != nil {
		return nil, err
	}
	resp := toConnectionResponse(conn)
	return &resp, nil
}

// Disconnect elimina la conexión y todos sus datos derivados (cascada en una
// sola transacción).
func (uc *ConnectionUseCase) Disconnect(ctx context.Context, id string) error {
	conn, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if conn == nil {
		return domain.ErrConnectionNotFound
	}
	return uc.purge.PurgeConnection(ctx, id)
}

func toConnectionResponse(c *entity.Connection) dto.ConnectionResponse {
	vendors := c.ApprovedVendors
	if vendors == nil {
		vendors = []string{}
	}
	return dto.ConnectionResponse{
		ID:              c.ID,
		ShopDomain:      c.ShopDomain,
		Platform:        c.Platform,
		Active:          c.Active,
		SetupComplete:   c.SetupComplete,
		VendorMode:      c.VendorMode,
		ApprovedVendors: vendors,
		Stale:           c.StaleAt != nil,
		LastSyncAt:      c.LastSyncAt,
		CreatedAt:       c.CreatedAt,
	}
}
