package shopify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

var _ appsync.StoreGateway = (*Gateway)(nil)

// Gateway implementa el puerto StoreGateway del motor de sync sobre el
// Admin GraphQL API. Aplana producto/variante y resuelve la canasta
// "available" aquí, en la frontera, para que el reconciliador trabaje con
// formas tipadas.
type Gateway struct {
	client *Client
}

// NewGateway construye el adaptador sobre un Client.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// ProductPage trae una página de productos (con variantes anidadas) y la
// aplana a variantes; el cursor de paginación es a nivel de producto.
func (g *Gateway) ProductPage(ctx context.Context, conn *entity.Connection, filter, cursor string, pageSize int) (*appsync.RemotePage, error) {
	vars := map[string]any{"first": pageSize}
	if cursor != "" {
		vars["after"] = cursor
	}
	if filter != "" {
		vars["query"] = filter
	}

	var payload productsPayload
	if err := g.client.QueryWithRetry(ctx, conn.ShopDomain, conn.AccessToken, productsQuery, vars, &payload); err != nil {
		return nil, fmt.Errorf("página de productos: %w", err)
	}

	page := &appsync.RemotePage{
		EndCursor:   payload.Products.PageInfo.EndCursor,
		HasNextPage: payload.Products.PageInfo.HasNextPage,
	}
	for _, edge := range payload.Products.Edges {
		p := edge.Node
		for _, ve := range p.Variants.Edges {
			v := ve.Node
			price, err := decimal.NewFromString(v.Price)
			if err != nil {
				price = decimal.Zero
			}
			page.Variants = append(page.Variants, appsync.RemoteVariant{
				ExternalID:      v.ID,
				ProductTitle:    p.Title,
				VariantTitle:    v.Title,
				SKU:             v.SKU,
				Vendor:          p.Vendor,
				Price:           price,
				InventoryItemID: v.InventoryItem.ID,
			})
		}
	}
	return page, nil
}

// InventoryLevels devuelve las cantidades por ubicación. Solo la canasta
// "available" es autoritativa; cualquier otra se ignora.
func (g *Gateway) InventoryLevels(ctx context.Context, conn *entity.Connection, inventoryItemID string) ([]appsync.RemoteLevel, error) {
	var payload inventoryLevelsPayload
	vars := map[string]any{"id": inventoryItemID}
	if err := g.client.QueryWithRetry(ctx, conn.ShopDomain, conn.AccessToken, inventoryLevelsQuery, vars, &payload); err != nil {
		return nil, fmt.Errorf("niveles de inventario %s: %w", inventoryItemID, err)
	}

	var levels []appsync.RemoteLevel
	for _, edge := range payload.InventoryItem.InventoryLevels.Edges {
		node := edge.Node
		for _, q := range node.Quantities {
			if q.Name != "available" {
				continue
			}
			levels = append(levels, appsync.RemoteLevel{
				LocationExternalID: node.Location.ID,
				LocationName:       node.Location.Name,
				Available:          q.Quantity,
			})
		}
	}
	return levels, nil
}

// Vendors pagina productVendors y devuelve el listado completo de nombres.
func (g *Gateway) Vendors(ctx context.Context, conn *entity.Connection) ([]string, error) {
	var vendors []string
	cursor := ""
	for {
		vars := map[string]any{"first": 100}
		if cursor != "" {
			vars["after"] = cursor
		}
		var payload productVendorsPayload
		if err := g.client.QueryWithRetry(ctx, conn.ShopDomain, conn.AccessToken, productVendorsQuery, vars, &payload); err != nil {
			return nil, fmt.Errorf("listado de proveedores: %w", err)
		}
		for _, e := range payload.Shop.ProductVendors.Edges {
			if e.Node != "" {
				vendors = append(vendors, e.Node)
			}
		}
		if !payload.Shop.ProductVendors.PageInfo.HasNextPage {
			return vendors, nil
		}
		cursor = payload.Shop.ProductVendors.PageInfo.EndCursor
	}
}
