// Package vendorscope calcula qué productos upstream están en alcance para
// una conexión según su listado de proveedores aprobados.
package vendorscope

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

// Scope alcance resuelto de una conexión.
type Scope struct {
	Mode    string
	Vendors []string // normalizados NFC, sin vacíos
}

// FromConnection resuelve el alcance. Si la conexión no completó el setup
// (sin decisión de proveedores registrada) el sync debe negarse a correr en
// lugar de asumir acceso total.
func FromConnection(c *entity.Connection) (Scope, error) {
	if c == nil {
		return Scope{}, domain.ErrConnectionNotFound
	}
	if !c.SetupComplete || c.VendorMode == "" {
		return Scope{}, domain.ErrSetupIncomplete
	}
	switch c.VendorMode {
	case entity.VendorModeAll, entity.VendorModeNone:
		return Scope{Mode: c.VendorMode}, nil
	case entity.VendorModeSelected:
		vendors := make([]string, 0, len(c.ApprovedVendors))
		for _, v := range c.ApprovedVendors {
			v = norm.NFC.String(strings.TrimSpace(v))
			if v != "" {
				vendors = append(vendors, v)
			}
		}
		return Scope{Mode: entity.VendorModeSelected, Vendors: vendors}, nil
	default:
		return Scope{}, fmt.Errorf("%w: modo de proveedores %q", domain.ErrInvalidInput, c.VendorMode)
	}
}

// IsEmpty indica que el alcance no cubre ningún producto: el sync completo
// debe cortocircuitar a un éxito con contadores en cero y cero llamadas a
// la API, nunca emitir un filtro ambiguo.
func (s Scope) IsEmpty() bool {
	if s.Mode == entity.VendorModeNone {
		return true
	}
	return s.Mode == entity.VendorModeSelected && len(s.Vendors) == 0
}

// QueryFilter construye la expresión de búsqueda server-side de Shopify:
// "" para acceso total, o un OR de igualdades por proveedor.
// Con alcance vacío no hay filtro válido; el caller no debe llegar aquí.
func (s Scope) QueryFilter() string {
	if s.Mode != entity.VendorModeSelected {
		return ""
	}
	parts := make([]string, 0, len(s.Vendors))
	for _, v := range s.Vendors {
		parts = append(parts, fmt.Sprintf("vendor:%q", v))
	}
	return strings.Join(parts, " OR ")
}

// Allows indica si un proveedor upstream está dentro del alcance.
// La comparación es exacta tras normalizar NFC y recortar espacios.
func (s Scope) Allows(vendor string) bool {
	switch s.Mode {
	case entity.VendorModeAll:
		return true
	case entity.VendorModeSelected:
		v := norm.NFC.String(strings.TrimSpace(vendor))
		for _, approved := range s.Vendors {
			if approved == v {
				return true
			}
		}
	}
	return false
}
