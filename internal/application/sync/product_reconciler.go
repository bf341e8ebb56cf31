package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// DefaultVariantTitle valor centinela de Shopify para la variante única de
// un producto: en ese caso el nombre interno es solo el título del producto.
const DefaultVariantTitle = "Default Title"

// ProductReconciler recorre las páginas de productos upstream y materializa
// cada variante como Product interno: decide crear o actualizar por
// (connection, external id) y luego (connection, sku). Nunca borra: la
// ausencia upstream no es evidencia de eliminación, archivar es una acción
// manual del operador.
type ProductReconciler struct {
	gateway          StoreGateway
	products         repository.ProductRepository
	log              *logger.Logger
	pageSize         int
	maxPages         int
	defaultThreshold int
}

// NewProductReconciler construye el reconciliador de productos.
func NewProductReconciler(gateway StoreGateway, products repository.ProductRepository, log *logger.Logger, pageSize, maxPages, defaultThreshold int) *ProductReconciler {
	if pageSize <= 0 {
		pageSize = 50
	}
	if maxPages <= 0 {
		maxPages = 200
	}
	return &ProductReconciler{
		gateway:          gateway,
		products:         products,
		log:              log,
		pageSize:         pageSize,
		maxPages:         maxPages,
		defaultThreshold: defaultThreshold,
	}
}

// DisplayName deriva el nombre interno: "{producto} - {variante}", salvo la
// variante centinela, que usa el título del producto a secas.
func DisplayName(productTitle, variantTitle string) string {
	if variantTitle == "" || variantTitle == DefaultVariantTitle {
		return productTitle
	}
	return productTitle + " - " + variantTitle
}

// Reconcile pagina por cursor aplicando el filtro de proveedores y persiste
// cada variante. Una falla por variante se registra y no aborta la página;
// el tope de páginas protege contra un upstream que pagina sin fin.
func (r *ProductReconciler) Reconcile(ctx context.Context, conn *entity.Connection, filter string, stats *entity.SyncStats) error {
	cursor := ""
	for page := 0; page < r.maxPages; page++ {
		remote, err := r.gateway.ProductPage(ctx, conn, filter, cursor, r.pageSize)
		if err != nil {
			return fmt.Errorf("página %d: %w", page, err)
		}
		stats.APICalls++

		for _, v := range remote.Variants {
			if err := r.reconcileVariant(ctx, conn, v, stats); err != nil {
				stats.ItemErrors++
				r.log.Warn().Err(err).
					Str("connection", conn.ID).
					Str("external_id", v.ExternalID).
					Msg("variante no reconciliada, se continúa")
			}
		}

		if !remote.HasNextPage {
			return nil
		}
		cursor = remote.EndCursor
	}
	return fmt.Errorf("paginación de productos superó el tope de %d páginas", r.maxPages)
}

func (r *ProductReconciler) reconcileVariant(ctx context.Context, conn *entity.Connection, v RemoteVariant, stats *entity.SyncStats) error {
	stats.Processed++

	sku := strings.TrimSpace(v.SKU)
	if sku == "" {
		sku = v.ExternalID
	}
	name := DisplayName(v.ProductTitle, v.VariantTitle)

	existing, err := r.products.GetByExternalID(ctx, conn.ID, v.ExternalID)
	if err != nil {
		return fmt.Errorf("buscar por external id: %w", err)
	}
	if existing == nil {
		existing, err = r.products.GetBySKU(ctx, conn.ID, sku)
		if err != nil {
			return fmt.Errorf("buscar por sku: %w", err)
		}
		if existing != nil && existing.ExternalID != "" && existing.ExternalID != v.ExternalID {
			// El SKU coincide pero pertenece a otra variante: se señala el
			// conflicto en lugar de pisar la fila equivocada.
			stats.Conflicts++
			r.log.Warn().
				Str("sku", sku).
				Str("external_id", v.ExternalID).
				Str("existing_external_id", existing.ExternalID).
				Msg("conflicto sku/external id, variante omitida")
			return nil
		}
	}

	now := time.Now()
	if existing != nil {
		existing.ExternalID = v.ExternalID
		existing.InventoryItemID = v.InventoryItemID
		existing.SKU = sku
		existing.Name = name
		existing.Vendor = v.Vendor
		existing.Price = v.Price
		existing.UpdatedAt = now
		if err := r.products.Update(ctx, existing); err != nil {
			return fmt.Errorf("actualizar producto: %w", err)
		}
		stats.Updated++
		return nil
	}

	product := &entity.Product{
		ID:                uuid.New().String(),
		ConnectionID:      conn.ID,
		ExternalID:        v.ExternalID,
		InventoryItemID:   v.InventoryItemID,
		SKU:               sku,
		Name:              name,
		Vendor:            v.Vendor,
		Price:             v.Price,
		LowStockThreshold: r.defaultThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.products.Create(ctx, product); err != nil {
		return fmt.Errorf("crear producto: %w", err)
	}
	stats.Created++
	return nil
}
