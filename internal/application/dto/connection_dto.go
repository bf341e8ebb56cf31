package dto

import "time"

// ConnectionResponse salida de una conexión de tienda. El access token nunca
// sale por la API.
type ConnectionResponse struct {
	ID              string     `json:"id"`
	ShopDomain      string     `json:"shop_domain"`
	Platform        string     `json:"platform"`
	Active          bool       `json:"active"`
	SetupComplete   bool       `json:"setup_complete"`
	VendorMode      string     `json:"vendor_mode"`
	ApprovedVendors []string   `json:"approved_vendors"`
	Stale           bool       `json:"stale"`
	LastSyncAt      *time.Time `json:"last_sync_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// VendorApprovalRequest decisión de alcance de proveedores; completa el setup.
type VendorApprovalRequest struct {
	Mode    string   `json:"mode" validate:"required,oneof=all none selected"`
	Vendors []string `json:"vendors" validate:"omitempty,dive,min=1"`
}

// VendorListResponse proveedores distintos reportados por la tienda.
type VendorListResponse struct {
	Vendors []string `json:"vendors"`
}
