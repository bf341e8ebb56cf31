// Package alerting contiene las reglas puras de la máquina de estados de
// alertas de stock bajo: sin I/O, sin repositorios, solo decisiones.
package alerting

import "github.com/jhoicas/stocksync-api/internal/domain/entity"

// DefaultThreshold umbral de sistema cuando ni la fila de stock ni el
// producto definen uno.
const DefaultThreshold = 5

// Severity banda de severidad para presentación. No se persiste.
type Severity string

const (
	SeverityOutOfStock Severity = "out_of_stock" // cantidad = 0
	SeverityCritical   Severity = "critical"     // <= 25% del umbral
	SeverityWarning    Severity = "warning"      // <= 50% del umbral
	SeverityLow        Severity = "low"          // cualquier otro <= umbral
	SeverityNone       Severity = "none"
)

// Decision resultado de evaluar un producto tras reconciliar su inventario.
type Decision int

const (
	KeepAsIs Decision = iota // sin escritura (idempotente)
	OpenAlert
	ResolveAlert
)

// EffectiveThreshold resuelve el umbral vigente: override de la fila,
// si no el del producto, si no el del sistema.
func EffectiveThreshold(row *int, productDefault int) int {
	if row != nil && *row > 0 {
		return *row
	}
	if productDefault > 0 {
		return productDefault
	}
	return DefaultThreshold
}

// SeverityFor clasifica una cantidad contra su umbral. Solo para display.
func SeverityFor(quantity, threshold int) Severity {
	switch {
	case quantity > threshold:
		return SeverityNone
	case quantity == 0:
		return SeverityOutOfStock
	case quantity*4 <= threshold:
		return SeverityCritical
	case quantity*2 <= threshold:
		return SeverityWarning
	default:
		return SeverityLow
	}
}

// Evaluate aplica la regla de transición una vez por producto.
// Re-ejecutar el sync sin cambios upstream no duplica ni sacude alertas.
func Evaluate(quantity, threshold int, hasOpen bool) Decision {
	under := quantity <= threshold
	switch {
	case under && !hasOpen:
		return OpenAlert
	case !under && hasOpen:
		return ResolveAlert
	default:
		return KeepAsIs
	}
}

// WorstRow elige la fila de inventario que manda para el producto: la de
// mayor déficit frente a su umbral efectivo (desempate: menor cantidad).
// Devuelve ok=false si el producto no tiene filas de stock.
func WorstRow(levels []*entity.InventoryLevel, productDefault int) (quantity, threshold int, ok bool) {
	best := -1
	bestDeficit := 0
	for i, l := range levels {
		thr := EffectiveThreshold(l.Threshold, productDefault)
		deficit := thr - l.Quantity
		if best == -1 || deficit > bestDeficit ||
			(deficit == bestDeficit && l.Quantity < levels[best].Quantity) {
			best = i
			bestDeficit = deficit
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return levels[best].Quantity, EffectiveThreshold(levels[best].Threshold, productDefault), true
}
