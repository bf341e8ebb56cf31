package sync_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memConnections struct {
	items map[string]*entity.Connection
}

func newMemConnections(conns ...*entity.Connection) *memConnections {
	m := &memConnections{items: make(map[string]*entity.Connection)}
	for _, c := range conns {
		m.items[c.ID] = c
	}
	return m
}

func (m *memConnections) Create(_ context.Context, c *entity.Connection) error {
	m.items[c.ID] = c
	return nil
}

func (m *memConnections) GetByID(_ context.Context, id string) (*entity.Connection, error) {
	return m.items[id], nil
}

func (m *memConnections) GetByDomain(_ context.Context, shopDomain string) (*entity.Connection, error) {
	for _, c := range m.items {
		if c.ShopDomain == shopDomain {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memConnections) FirstActive(_ context.Context) (*entity.Connection, error) {
	for _, c := range m.items {
		if c.Active {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memConnections) List(_ context.Context) ([]*entity.Connection, error) {
	out := make([]*entity.Connection, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *memConnections) Update(_ context.Context, c *entity.Connection) error {
	m.items[c.ID] = c
	return nil
}

func (m *memConnections) StampLastSync(_ context.Context, id string, at time.Time) error {
	c, ok := m.items[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	c.LastSyncAt = &at
	c.StaleAt = nil
	return nil
}

func (m *memConnections) MarkStale(_ context.Context, shopDomain string, at time.Time) error {
	for _, c := range m.items {
		if c.ShopDomain == shopDomain {
			c.StaleAt = &at
		}
	}
	return nil
}

func (m *memConnections) Deactivate(_ context.Context, shopDomain string) error {
	for _, c := range m.items {
		if c.ShopDomain == shopDomain {
			c.Active = false
			c.AccessToken = ""
		}
	}
	return nil
}

func (m *memConnections) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memProducts struct {
	items []*entity.Product
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.items = append(m.items, p)
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByExternalID(_ context.Context, connectionID, externalID string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.ConnectionID == connectionID && p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetBySKU(_ context.Context, connectionID, sku string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.ConnectionID == connectionID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	for i, it := range m.items {
		if it.ID == p.ID {
			m.items[i] = p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memProducts) UpdateThreshold(_ context.Context, id string, threshold int) error {
	for _, p := range m.items {
		if p.ID == id {
			p.LowStockThreshold = threshold
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memProducts) SetArchived(_ context.Context, id string, archived bool) error {
	for _, p := range m.items {
		if p.ID == id {
			p.Archived = archived
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memProducts) ListByConnection(_ context.Context, connectionID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.ConnectionID == connectionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) ListSyncable(_ context.Context, connectionID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.ConnectionID == connectionID && !p.Archived && p.InventoryItemID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) CountByConnection(_ context.Context, connectionID string) (int, error) {
	n := 0
	for _, p := range m.items {
		if p.ConnectionID == connectionID {
			n++
		}
	}
	return n, nil
}

func (m *memProducts) DeleteByConnection(_ context.Context, connectionID string) error {
	var kept []*entity.Product
	for _, p := range m.items {
		if p.ConnectionID != connectionID {
			kept = append(kept, p)
		}
	}
	m.items = kept
	return nil
}

type memLevels struct {
	items map[string]*entity.InventoryLevel
}

func newMemLevels() *memLevels {
	return &memLevels{items: make(map[string]*entity.InventoryLevel)}
}

func levelKey(productID, locationExternalID string) string {
	return productID + "|" + locationExternalID
}

func (m *memLevels) Get(_ context.Context, productID, locationExternalID string) (*entity.InventoryLevel, error) {
	return m.items[levelKey(productID, locationExternalID)], nil
}

func (m *memLevels) Upsert(_ context.Context, level *entity.InventoryLevel) error {
	key := levelKey(level.ProductID, level.LocationExternalID)
	if prev, ok := m.items[key]; ok {
		level.Threshold = prev.Threshold
	}
	m.items[key] = level
	return nil
}

func (m *memLevels) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryLevel, error) {
	var out []*entity.InventoryLevel
	for _, l := range m.items {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLevels) UpdateThreshold(_ context.Context, productID, locationExternalID string, threshold *int) error {
	l, ok := m.items[levelKey(productID, locationExternalID)]
	if !ok {
		return domain.ErrNotFound
	}
	l.Threshold = threshold
	return nil
}

func (m *memLevels) DeleteByConnection(_ context.Context, _ string) error {
	m.items = make(map[string]*entity.InventoryLevel)
	return nil
}

type memAlerts struct {
	items []*entity.Alert
}

func (m *memAlerts) Create(_ context.Context, a *entity.Alert) error {
	for _, it := range m.items {
		if it.ProductID == a.ProductID && it.Status == entity.AlertStatusOpen {
			return domain.ErrDuplicate
		}
	}
	m.items = append(m.items, a)
	return nil
}

func (m *memAlerts) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAlerts) GetOpenByProduct(_ context.Context, productID string) (*entity.Alert, error) {
	for _, a := range m.items {
		if a.ProductID == productID && a.Status == entity.AlertStatusOpen {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAlerts) Resolve(_ context.Context, id string, at time.Time) error {
	for _, a := range m.items {
		if a.ID == id && a.Status == entity.AlertStatusOpen {
			a.Status = entity.AlertStatusResolved
			a.ResolvedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memAlerts) MarkOrdered(_ context.Context, id string, at time.Time) error {
	for _, a := range m.items {
		if a.ID == id && a.Status == entity.AlertStatusOpen {
			a.Status = entity.AlertStatusOrdered
			a.ResolvedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memAlerts) List(_ context.Context, connectionID, status string, _, _ int) ([]*entity.Alert, error) {
	var out []*entity.Alert
	for _, a := range m.items {
		if a.ConnectionID == connectionID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAlerts) ListOpenByConnection(ctx context.Context, connectionID string) ([]*entity.Alert, error) {
	return m.List(ctx, connectionID, entity.AlertStatusOpen, 0, 0)
}

func (m *memAlerts) DeleteByConnection(_ context.Context, connectionID string) error {
	var kept []*entity.Alert
	for _, a := range m.items {
		if a.ConnectionID != connectionID {
			kept = append(kept, a)
		}
	}
	m.items = kept
	return nil
}

type memRuns struct {
	items []*entity.SyncRun
}

func (m *memRuns) Create(_ context.Context, run *entity.SyncRun) error {
	m.items = append(m.items, run)
	return nil
}

func (m *memRuns) Finish(_ context.Context, id, status, message string, stats entity.SyncStats, at time.Time) error {
	for _, r := range m.items {
		if r.ID == id {
			r.Status = status
			r.Message = message
			r.Stats = stats
			r.FinishedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRuns) GetByID(_ context.Context, id string) (*entity.SyncRun, error) {
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRuns) ListByConnection(_ context.Context, connectionID string, _, _ int) ([]*entity.SyncRun, error) {
	var out []*entity.SyncRun
	for _, r := range m.items {
		if r.ConnectionID == connectionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRuns) DeleteByConnection(_ context.Context, _ string) error {
	m.items = nil
	return nil
}

// fakeGateway sirve una sola página de variantes y niveles fijos por
// inventory item. Honra el filtro de proveedores igual que el upstream.
type fakeGateway struct {
	variants []appsync.RemoteVariant
	levels   map[string][]appsync.RemoteLevel
	calls    int
}

func (g *fakeGateway) ProductPage(_ context.Context, _ *entity.Connection, filter, _ string, _ int) (*appsync.RemotePage, error) {
	g.calls++
	page := &appsync.RemotePage{}
	for _, v := range g.variants {
		if filter != "" && !strings.Contains(filter, fmt.Sprintf("vendor:%q", v.Vendor)) {
			continue
		}
		page.Variants = append(page.Variants, v)
	}
	return page, nil
}

func (g *fakeGateway) InventoryLevels(_ context.Context, _ *entity.Connection, inventoryItemID string) ([]appsync.RemoteLevel, error) {
	g.calls++
	return g.levels[inventoryItemID], nil
}

func (g *fakeGateway) Vendors(_ context.Context, _ *entity.Connection) ([]string, error) {
	g.calls++
	seen := map[string]bool{}
	var out []string
	for _, v := range g.variants {
		if !seen[v.Vendor] {
			seen[v.Vendor] = true
			out = append(out, v.Vendor)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type syncEnv struct {
	conn     *entity.Connection
	conns    *memConnections
	products *memProducts
	levels   *memLevels
	alerts   *memAlerts
	runs     *memRuns
	gateway  *fakeGateway
	orch     *appsync.Orchestrator
}

func newSyncEnv(t *testing.T, gateway *fakeGateway) *syncEnv {
	t.Helper()
	conn := &entity.Connection{
		ID:            "conn-1",
		ShopDomain:    "acme.myshopify.com",
		Platform:      entity.PlatformShopify,
		AccessToken:   "shpat_test",
		Active:        true,
		SetupComplete: true,
		VendorMode:    entity.VendorModeAll,
	}
	env := &syncEnv{
		conn:     conn,
		conns:    newMemConnections(conn),
		products: &memProducts{},
		levels:   newMemLevels(),
		alerts:   &memAlerts{},
		runs:     &memRuns{},
		gateway:  gateway,
	}
	env.orch = appsync.NewOrchestrator(
		env.conns, env.products, env.levels, env.alerts, env.runs,
		gateway, logger.Nop(),
		appsync.Config{PageSize: 50, MaxPages: 10, DefaultThreshold: 10},
	)
	return env
}

func variante(externalID, sku, vendor string, qty int) (appsync.RemoteVariant, []appsync.RemoteLevel) {
	v := appsync.RemoteVariant{
		ExternalID:      externalID,
		ProductTitle:    "Producto " + sku,
		VariantTitle:    "Default Title",
		SKU:             sku,
		Vendor:          vendor,
		Price:           decimal.NewFromInt(100),
		InventoryItemID: "ii-" + externalID,
	}
	lv := []appsync.RemoteLevel{{LocationExternalID: "loc-1", LocationName: "Bodega", Available: qty}}
	return v, lv
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrida completa
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_CreaProductosYAbreAlerta(t *testing.T) {
	vA, lvA := variante("e1", "SKU-A", "Acme", 0)
	vB, lvB := variante("e2", "SKU-B", "Acme", 15)
	env := newSyncEnv(t, &fakeGateway{
		variants: []appsync.RemoteVariant{vA, vB},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA, "ii-e2": lvB},
	})

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 2, stats.InventoryUpdated)
	assert.Equal(t, 1, stats.AlertsCreated)
	assert.Equal(t, 0, stats.ItemErrors)

	// solo SKU-A (cantidad 0 <= umbral 10) queda en alerta
	prodA, err := env.products.GetBySKU(context.Background(), env.conn.ID, "SKU-A")
	require.NoError(t, err)
	require.NotNil(t, prodA)
	open, err := env.alerts.GetOpenByProduct(context.Background(), prodA.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, 0, open.Quantity)
	assert.Equal(t, 10, open.Threshold)

	prodB, err := env.products.GetBySKU(context.Background(), env.conn.ID, "SKU-B")
	require.NoError(t, err)
	require.NotNil(t, prodB)
	openB, err := env.alerts.GetOpenByProduct(context.Background(), prodB.ID)
	require.NoError(t, err)
	assert.Nil(t, openB)

	// la corrida queda registrada y la conexión sellada
	require.Len(t, env.runs.items, 1)
	assert.Equal(t, entity.SyncRunCompleted, env.runs.items[0].Status)
	require.NotNil(t, env.runs.items[0].FinishedAt)
	assert.NotNil(t, env.conn.LastSyncAt)
}

func TestRun_SegundaCorridaSinCambiosNoEscribe(t *testing.T) {
	vA, lvA := variante("e1", "SKU-A", "Acme", 0)
	vB, lvB := variante("e2", "SKU-B", "Acme", 15)
	env := newSyncEnv(t, &fakeGateway{
		variants: []appsync.RemoteVariant{vA, vB},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA, "ii-e2": lvB},
	})

	_, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Created, "sin productos nuevos")
	assert.Equal(t, 0, stats.InventoryUpdated, "cantidades iguales no se reescriben")
	assert.Equal(t, 0, stats.AlertsCreated, "la alerta abierta no se duplica")
	assert.Equal(t, 0, stats.AlertsResolved)

	abiertas, err := env.alerts.ListOpenByConnection(context.Background(), env.conn.ID)
	require.NoError(t, err)
	assert.Len(t, abiertas, 1)
}

func TestRun_ResuelveAlertaAlRecuperarStock(t *testing.T) {
	vA, lvA := variante("e1", "SKU-A", "Acme", 0)
	gw := &fakeGateway{
		variants: []appsync.RemoteVariant{vA},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA},
	}
	env := newSyncEnv(t, gw)

	_, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	// llega mercadería: la cantidad supera el umbral
	gw.levels["ii-e1"] = []appsync.RemoteLevel{{LocationExternalID: "loc-1", LocationName: "Bodega", Available: 25}}

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.InventoryUpdated)
	assert.Equal(t, 1, stats.AlertsResolved)

	abiertas, err := env.alerts.ListOpenByConnection(context.Background(), env.conn.ID)
	require.NoError(t, err)
	assert.Empty(t, abiertas)
	require.Len(t, env.alerts.items, 1)
	assert.Equal(t, entity.AlertStatusResolved, env.alerts.items[0].Status)
	assert.NotNil(t, env.alerts.items[0].ResolvedAt)
}

func TestRun_AlcanceVacioCortocircuita(t *testing.T) {
	vA, lvA := variante("e1", "SKU-A", "Acme", 0)
	env := newSyncEnv(t, &fakeGateway{
		variants: []appsync.RemoteVariant{vA},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA},
	})
	env.conn.VendorMode = entity.VendorModeNone

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SyncStats{}, *stats, "todo en cero")
	assert.Equal(t, 0, env.gateway.calls, "cero llamadas a la API")
	assert.Nil(t, env.conn.LastSyncAt, "el cortocircuito no sella la conexión")

	require.Len(t, env.runs.items, 1)
	assert.Equal(t, entity.SyncRunCompleted, env.runs.items[0].Status)
	assert.NotEmpty(t, env.runs.items[0].Message)
}

func TestRun_FiltraProveedoresSeleccionados(t *testing.T) {
	vA, lvA := variante("e1", "SKU-A", "Acme", 3)
	vB, lvB := variante("e2", "SKU-B", "Otro", 3)
	env := newSyncEnv(t, &fakeGateway{
		variants: []appsync.RemoteVariant{vA, vB},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA, "ii-e2": lvB},
	})
	env.conn.VendorMode = entity.VendorModeSelected
	env.conn.ApprovedVendors = []string{"Acme"}

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Created)
	p, err := env.products.GetBySKU(context.Background(), env.conn.ID, "SKU-B")
	require.NoError(t, err)
	assert.Nil(t, p, "el proveedor fuera de alcance no se materializa")
}

func TestRun_ConflictoSKUSeOmiteYSenala(t *testing.T) {
	// dos variantes distintas reclaman el mismo SKU
	vA, lvA := variante("e1", "SKU-X", "Acme", 5)
	vB, _ := variante("e2", "SKU-X", "Acme", 5)
	env := newSyncEnv(t, &fakeGateway{
		variants: []appsync.RemoteVariant{vA, vB},
		levels:   map[string][]appsync.RemoteLevel{"ii-e1": lvA},
	})

	stats, err := env.orch.Run(context.Background(), env.conn.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.Conflicts)
	require.Len(t, env.products.items, 1)
	assert.Equal(t, "e1", env.products.items[0].ExternalID, "la fila existente no se pisa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Preflight
// ──────────────────────────────────────────────────────────────────────────────

func TestPreflight_Precondiciones(t *testing.T) {
	env := newSyncEnv(t, &fakeGateway{})

	t.Run("conexion inexistente", func(t *testing.T) {
		_, _, err := env.orch.Preflight(context.Background(), "no-existe")
		assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
	})

	t.Run("plataforma no soportada", func(t *testing.T) {
		otra := &entity.Connection{ID: "conn-2", Platform: "woocommerce", Active: true, SetupComplete: true, VendorMode: entity.VendorModeAll}
		env.conns.items[otra.ID] = otra
		_, _, err := env.orch.Preflight(context.Background(), otra.ID)
		assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
	})

	t.Run("conexion inactiva", func(t *testing.T) {
		inactiva := &entity.Connection{ID: "conn-3", Platform: entity.PlatformShopify, Active: false, SetupComplete: true, VendorMode: entity.VendorModeAll}
		env.conns.items[inactiva.ID] = inactiva
		_, _, err := env.orch.Preflight(context.Background(), inactiva.ID)
		assert.ErrorIs(t, err, domain.ErrConnectionInactive)
	})

	t.Run("setup incompleto", func(t *testing.T) {
		sinSetup := &entity.Connection{ID: "conn-4", Platform: entity.PlatformShopify, Active: true}
		env.conns.items[sinSetup.ID] = sinSetup
		_, _, err := env.orch.Preflight(context.Background(), sinSetup.ID)
		assert.ErrorIs(t, err, domain.ErrSetupIncomplete)
	})

	t.Run("id vacio usa la primera activa", func(t *testing.T) {
		limpio := newSyncEnv(t, &fakeGateway{})
		conn, scope, err := limpio.orch.Preflight(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "conn-1", conn.ID)
		assert.False(t, scope.IsEmpty())
	})
}
