package entity

import "time"

// Plataformas soportadas. Hoy solo Shopify; el campo existe para que el
// orquestador pueda rechazar conexiones de otro origen sin adivinar.
const (
	PlatformShopify = "shopify"
)

// Modos de aprobación de proveedores para una conexión.
const (
	VendorModeAll      = "all"      // acceso total: sin filtro upstream
	VendorModeNone     = "none"     // acceso vacío: el sync es un no-op
	VendorModeSelected = "selected" // solo los proveedores del listado
)

// Connection representa una tienda vinculada vía OAuth.
// AccessToken se limpia y Active pasa a false al recibir el webhook de
// desinstalación; la eliminación total (cascada) ocurre en shop/redact o
// al desconectar explícitamente desde el dashboard.
type Connection struct {
	ID              string
	ShopDomain      string // ej. acme.myshopify.com
	Platform        string
	AccessToken     string
	Active          bool
	SetupComplete   bool   // true cuando el operador registró su decisión de proveedores
	VendorMode      string // all | none | selected
	ApprovedVendors []string
	StaleAt         *time.Time // marcado por webhooks de producto/inventario
	LastSyncAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
