// Package restock implementa el flujo de aprobación de reposición: el
// operador arma una solicitud en draft, la envía acuñando un magic token con
// vencimiento, y el retailer la aprueba o rechaza desde el enlace sin sesión.
package restock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/pkg/magictoken"
)

// Config parámetros del flujo de reposición.
type Config struct {
	TokenTTL      time.Duration // vigencia del magic link
	PublicBaseURL string        // base de la URL de aprobación
}

// UseCase casos de uso de solicitudes de reposición.
type UseCase struct {
	connections repository.ConnectionRepository
	products    repository.ProductRepository
	levels      repository.InventoryLevelRepository
	requests    repository.RestockRequestRepository
	tx          TxRunner
	renderer    OrderSheetRenderer
	cfg         Config
	now         func() time.Time
}

// NewUseCase construye el caso de uso de reposición.
func NewUseCase(
	connections repository.ConnectionRepository,
	products repository.ProductRepository,
	levels repository.InventoryLevelRepository,
	requests repository.RestockRequestRepository,
	tx TxRunner,
	renderer OrderSheetRenderer,
	cfg Config,
) *UseCase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return &UseCase{
		connections: connections,
		products:    products,
		levels:      levels,
		requests:    requests,
		tx:          tx,
		renderer:    renderer,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Create arma una solicitud en draft con snapshot de SKU, nombre y precio de
// cada producto. La cantidad actual es la suma de stock en todas las
// ubicaciones al momento de crear.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateRestockRequest) (*dto.RestockResponse, error) {
	conn, err := uc.connections.GetByID(ctx, in.ConnectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, domain.ErrConnectionNotFound
	}

	now := uc.now()
	req := &entity.RestockRequest{
		ID:           uuid.New().String(),
		ConnectionID: conn.ID,
		Status:       entity.RestockStatusDraft,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, item := range in.Items {
		p, err := uc.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.ConnectionID != conn.ID {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		current := 0
		levels, err := uc.levels.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range levels {
			current += l.Quantity
		}
		req.Items = append(req.Items, entity.RestockRequestItem{
			ID:                uuid.New().String(),
			RequestID:         req.ID,
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			UnitPrice:         p.Price,
			CurrentQuantity:   current,
			RequestedQuantity: item.RequestedQuantity,
		})
	}

	err = uc.tx.RunRestock(ctx, func(restockRepo repository.RestockRequestRepository, _ repository.AlertRepository) error {
		return restockRepo.CreateWithItems(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return toRestockResponse(req), nil
}

// Get obtiene una solicitud con líneas (vista del operador).
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.RestockResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}
	return toRestockResponse(req), nil
}

// List lista solicitudes de la conexión sin líneas.
func (uc *UseCase) List(ctx context.Context, connectionID string, page dto.PageRequest) (*dto.RestockListResponse, error) {
	page.DefaultPage()
	reqs, err := uc.requests.List(ctx, connectionID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.RestockListResponse{
		Items: make([]dto.RestockResponse, 0, len(reqs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range reqs {
		out.Items = append(out.Items, *toRestockResponse(r))
	}
	return out, nil
}

// Send acuña el magic token y pasa draft -> pending. Devuelve la URL de
// aprobación; el token no vuelve a salir por ningún otro endpoint.
func (uc *UseCase) Send(ctx context.Context, id string) (*dto.SendRestockResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RestockStatusDraft {
		return nil, domain.ErrConflict
	}
	token, err := magictoken.New()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	expires := now.Add(uc.cfg.TokenTTL)
	if err := uc.requests.MarkSent(ctx, id, token, expires, now); err != nil {
		return nil, err
	}
	return &dto.SendRestockResponse{
		ApprovalURL: fmt.Sprintf("%s/restock/%s", uc.cfg.PublicBaseURL, token),
		ExpiresAt:   expires,
	}, nil
}

// GetByToken resuelve el magic link para la vista pública. Token desconocido
// es ErrNotFound; vencido, ErrTokenExpired; ya decidido, ErrAlreadyProcessed.
func (uc *UseCase) GetByToken(ctx context.Context, token string) (*dto.RestockResponse, error) {
	req, err := uc.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return toRestockResponse(req), nil
}

// Process cierra la solicitud desde el magic link. Al aprobar, cada cantidad
// omitida hereda la solicitada y las alertas abiertas de los productos pasan
// a ordered dentro de la misma transacción.
func (uc *UseCase) Process(ctx context.Context, token string, in dto.ProcessRestockRequest) (*dto.RestockResponse, error) {
	req, err := uc.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	status := entity.RestockStatusRejected
	approved := map[string]int{}
	if in.Action == "approve" {
		status = entity.RestockStatusApproved
		overrides := make(map[string]int, len(in.Items))
		for _, d := range in.Items {
			overrides[d.ItemID] = d.ApprovedQuantity
		}
		for _, item := range req.Items {
			qty, ok := overrides[item.ID]
			if !ok {
				qty = item.RequestedQuantity
			}
			approved[item.ID] = qty
		}
	}

	now := uc.now()
	err = uc.tx.RunRestock(ctx, func(restockRepo repository.RestockRequestRepository, alertRepo repository.AlertRepository) error {
		if err := restockRepo.Process(ctx, req.ID, status, approved, now); err != nil {
			return err
		}
		if status != entity.RestockStatusApproved {
			return nil
		}
		for _, item := range req.Items {
			alert, err := alertRepo.GetOpenByProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if alert == nil {
				continue
			}
			if err := alertRepo.MarkOrdered(ctx, alert.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, req.ID)
}

// OrderSheet genera la hoja de pedido en PDF de una solicitud.
func (uc *UseCase) OrderSheet(ctx context.Context, id string) ([]byte, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	conn, err := uc.connections.GetByID(ctx, req.ConnectionID)
	if err != nil {
		return nil, err
	}
	shop := ""
	if conn != nil {
		shop = conn.ShopDomain
	}
	return uc.renderer.Render(req, shop)
}

func (uc *UseCase) resolveToken(ctx context.Context, token string) (*entity.RestockRequest, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	req, err := uc.requests.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if magictoken.Expired(req.TokenExpiresAt, uc.now()) {
		return nil, domain.ErrTokenExpired
	}
	if req.Status != entity.RestockStatusPending {
		return nil, domain.ErrAlreadyProcessed
	}
	return req, nil
}

func toRestockResponse(req *entity.RestockRequest) *dto.RestockResponse {
	out := &dto.RestockResponse{
		ID:             req.ID,
		ConnectionID:   req.ConnectionID,
		Status:         req.Status,
		Notes:          req.Notes,
		EstimatedTotal: decimal.Zero,
		TokenExpiresAt: req.TokenExpiresAt,
		CreatedAt:      req.CreatedAt,
		SentAt:         req.SentAt,
		ProcessedAt:    req.ProcessedAt,
	}
	for _, item := range req.Items {
		cost := item.EstimatedCost()
		out.Items = append(out.Items, dto.RestockItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			SKU:               item.SKU,
			ProductName:       item.ProductName,
			UnitPrice:         item.UnitPrice,
			CurrentQuantity:   item.CurrentQuantity,
			RequestedQuantity: item.RequestedQuantity,
			ApprovedQuantity:  item.ApprovedQuantity,
			EstimatedCost:     cost,
		})
		out.EstimatedTotal = out.EstimatedTotal.Add(cost)
	}
	return out
}
