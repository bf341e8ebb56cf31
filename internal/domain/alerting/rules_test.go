package alerting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stocksync-api/internal/domain/alerting"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// EffectiveThreshold
// ──────────────────────────────────────────────────────────────────────────────

func TestEffectiveThreshold_PrioridadFilaProductoSistema(t *testing.T) {
	assert.Equal(t, 8, alerting.EffectiveThreshold(intPtr(8), 10), "el override de la fila manda")
	assert.Equal(t, 10, alerting.EffectiveThreshold(nil, 10), "sin override usa el del producto")
	assert.Equal(t, alerting.DefaultThreshold, alerting.EffectiveThreshold(nil, 0), "sin nada usa el de sistema")
	assert.Equal(t, 10, alerting.EffectiveThreshold(intPtr(0), 10), "override en cero no cuenta")
}

// ──────────────────────────────────────────────────────────────────────────────
// SeverityFor — bandas solo de presentación
// ──────────────────────────────────────────────────────────────────────────────

func TestSeverityFor_Bandas(t *testing.T) {
	cases := []struct {
		nombre    string
		qty, thr  int
		esperado  alerting.Severity
	}{
		{"agotado", 0, 10, alerting.SeverityOutOfStock},
		{"critico 25%", 2, 10, alerting.SeverityCritical},
		{"advertencia 50%", 5, 10, alerting.SeverityWarning},
		{"bajo", 8, 10, alerting.SeverityLow},
		{"igual al umbral", 10, 10, alerting.SeverityLow},
		{"sobre el umbral", 11, 10, alerting.SeverityNone},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.esperado, alerting.SeverityFor(c.qty, c.thr))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluate — regla de transición idempotente
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_AbreSoloSinAlertaAbierta(t *testing.T) {
	assert.Equal(t, alerting.OpenAlert, alerting.Evaluate(3, 10, false))
	assert.Equal(t, alerting.KeepAsIs, alerting.Evaluate(3, 10, true),
		"bajo umbral con alerta abierta no escribe nada")
}

func TestEvaluate_ResuelveAlRecuperarse(t *testing.T) {
	assert.Equal(t, alerting.ResolveAlert, alerting.Evaluate(15, 10, true))
	assert.Equal(t, alerting.KeepAsIs, alerting.Evaluate(15, 10, false))
}

func TestEvaluate_UmbralExactoAbre(t *testing.T) {
	// cantidad <= umbral abre, el borde incluido
	assert.Equal(t, alerting.OpenAlert, alerting.Evaluate(10, 10, false))
}

// ──────────────────────────────────────────────────────────────────────────────
// WorstRow — fila que manda con múltiples ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestWorstRow_EligeMayorDeficit(t *testing.T) {
	levels := []*entity.InventoryLevel{
		{LocationExternalID: "loc-1", Quantity: 20},
		{LocationExternalID: "loc-2", Quantity: 1},
		{LocationExternalID: "loc-3", Quantity: 7, Threshold: intPtr(3)},
	}
	qty, thr, ok := alerting.WorstRow(levels, 10)
	assert.True(t, ok)
	assert.Equal(t, 1, qty, "loc-2 tiene el mayor déficit (10-1)")
	assert.Equal(t, 10, thr)
}

func TestWorstRow_SinFilas(t *testing.T) {
	_, _, ok := alerting.WorstRow(nil, 10)
	assert.False(t, ok)
}
