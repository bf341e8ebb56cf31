package usecase

import (
	"context"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/alerting"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
)

// ProductUseCase consulta y ajustes de productos sincronizados. El catálogo
// lo escribe el sync; el operador solo toca umbral y archivado.
type ProductUseCase struct {
	products repository.ProductRepository
	levels   repository.InventoryLevelRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, levels repository.InventoryLevelRepository) *ProductUseCase {
	return &ProductUseCase{products: products, levels: levels}
}

// List lista productos de la conexión con su stock total.
func (uc *ProductUseCase) List(ctx context.Context, connectionID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.products.ListByConnection(ctx, connectionID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.products.CountByConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, p := range products {
		levels, err := uc.levels.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, toProductResponse(p, levels))
	}
	return out, nil
}

// Get obtiene un producto con sus filas de stock y umbrales efectivos.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	levels, err := uc.levels.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	detail := &dto.ProductDetailResponse{
		ProductResponse: toProductResponse(p, levels),
		Levels:          make([]dto.InventoryLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		detail.Levels = append(detail.Levels, dto.InventoryLevelResponse{
			LocationExternalID: l.LocationExternalID,
			LocationName:       l.LocationName,
			Quantity:           l.Quantity,
			Threshold:          l.Threshold,
			EffectiveThreshold: alerting.EffectiveThreshold(l.Threshold, p.LowStockThreshold),
			UpdatedAt:          l.UpdatedAt,
		})
	}
	return detail, nil
}

// Update aplica los ajustes del operador; los campos nil no se tocan.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductDetailResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.products.UpdateThreshold(ctx, id, *in.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	if in.Archived != nil {
		if err := uc.products.SetArchived(ctx, id, *in.Archived); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, id)
}

// UpdateLevelThreshold fija o limpia (null) el override de una ubicación.
func (uc *ProductUseCase) UpdateLevelThreshold(ctx context.Context, productID, locationExternalID string, in dto.UpdateLevelThresholdRequest) (*dto.ProductDetailResponse, error) {
	level, err := uc.levels.Get(ctx, productID, locationExternalID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, domain.ErrNotFound
	}
	if in.Threshold != nil && *in.Threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.levels.UpdateThreshold(ctx, productID, locationExternalID, in.Threshold); err != nil {
		return nil, err
	}
	return uc.Get(ctx, productID)
}

func toProductResponse(p *entity.Product, levels []*entity.InventoryLevel) dto.ProductResponse {
	total := 0
	for _, l := range levels {
		total += l.Quantity
	}
	return dto.ProductResponse{
		ID:                p.ID,
		ExternalID:        p.ExternalID,
		SKU:               p.SKU,
		Name:              p.Name,
		Vendor:            p.Vendor,
		Price:             p.Price,
		LowStockThreshold: p.LowStockThreshold,
		Archived:          p.Archived,
		TotalQuantity:     total,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
