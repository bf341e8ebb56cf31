package shopify

import "encoding/json"

// Formas tipadas de los payloads del Admin API. Se validan en la frontera
// del cliente; el reconciliador nunca recorre JSON suelto.

// graphQLRequest cuerpo POST del endpoint GraphQL.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLEnvelope sobre { data, errors, extensions } de toda respuesta.
type graphQLEnvelope struct {
	Data       json.RawMessage    `json:"data"`
	Errors     []graphQLErrorItem `json:"errors"`
	Extensions struct {
		Cost *costInfo `json:"cost"`
	} `json:"extensions"`
}

type graphQLErrorItem struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// costInfo bloque de costo/throttle del Admin API.
type costInfo struct {
	RequestedQueryCost float64 `json:"requestedQueryCost"`
	ActualQueryCost    float64 `json:"actualQueryCost"`
	ThrottleStatus     struct {
		MaximumAvailable   float64 `json:"maximumAvailable"`
		CurrentlyAvailable float64 `json:"currentlyAvailable"`
		RestoreRate        float64 `json:"restoreRate"`
	} `json:"throttleStatus"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// productsPayload página de productos con variantes anidadas.
type productsPayload struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
		PageInfo pageInfo `json:"pageInfo"`
	} `json:"products"`
}

type productNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Vendor   string `json:"vendor"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type variantNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	InventoryItem struct {
		ID string `json:"id"`
	} `json:"inventoryItem"`
}

// inventoryLevelsPayload niveles por ubicación de un inventory item.
type inventoryLevelsPayload struct {
	InventoryItem struct {
		ID              string `json:"id"`
		InventoryLevels struct {
			Edges []struct {
				Node struct {
					Location struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"location"`
					Quantities []struct {
						Name     string `json:"name"`
						Quantity int    `json:"quantity"`
					} `json:"quantities"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"inventoryLevels"`
	} `json:"inventoryItem"`
}

// productVendorsPayload listado de proveedores distintos de la tienda.
type productVendorsPayload struct {
	Shop struct {
		ProductVendors struct {
			Edges []struct {
				Node string `json:"node"`
			} `json:"edges"`
			PageInfo pageInfo `json:"pageInfo"`
		} `json:"productVendors"`
	} `json:"shop"`
}

// accessTokenResponse respuesta del intercambio OAuth code -> token.
type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}
