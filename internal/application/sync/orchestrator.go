package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/internal/domain/vendorscope"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// Config parámetros de una corrida de sync.
type Config struct {
	PageSize         int // tamaño de página upstream
	MaxPages         int // tope defensivo de paginación
	DefaultThreshold int // umbral de stock bajo para productos nuevos
}

// Orchestrator conduce una sincronización completa de punta a punta:
// alcance de proveedores -> productos -> inventario por producto -> pasada
// de alertas -> sello de última corrida. Registra el desenlace en SyncRun.
// Es re-entrante: no hay lock por corrida, los upserts idempotentes y el
// índice único de alertas hacen converger corridas repetidas o concurrentes.
type Orchestrator struct {
	connections repository.ConnectionRepository
	products    repository.ProductRepository
	runs        repository.SyncRunRepository
	productRec  *ProductReconciler
	inventory   *InventoryReconciler
	alerts      *AlertEngine
	log         *logger.Logger
}

// NewOrchestrator cablea el orquestador con sus reconciliadores.
func NewOrchestrator(
	connections repository.ConnectionRepository,
	products repository.ProductRepository,
	levels repository.InventoryLevelRepository,
	alerts repository.AlertRepository,
	runs repository.SyncRunRepository,
	gateway StoreGateway,
	log *logger.Logger,
	cfg Config,
) *Orchestrator {
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 10
	}
	return &Orchestrator{
		connections: connections,
		products:    products,
		runs:        runs,
		productRec:  NewProductReconciler(gateway, products, log, cfg.PageSize, cfg.MaxPages, cfg.DefaultThreshold),
		inventory:   NewInventoryReconciler(gateway, levels),
		alerts:      NewAlertEngine(levels, alerts),
		log:         log,
	}
}

// Preflight valida las precondiciones en orden: conexión existente y de
// plataforma soportada, activa, y con decisión de proveedores registrada.
// Con connectionID vacío usa la primera conexión activa.
func (o *Orchestrator) Preflight(ctx context.Context, connectionID string) (*entity.Connection, vendorscope.Scope, error) {
	var (
		conn *entity.Connection
		err  error
	)
	if connectionID == "" {
		conn, err = o.connections.FirstActive(ctx)
	} else {
		conn, err = o.connections.GetByID(ctx, connectionID)
	}
	if err != nil {
		return nil, vendorscope.Scope{}, err
	}
	if conn == nil {
		return nil, vendorscope.Scope{}, domain.ErrConnectionNotFound
	}
	if conn.Platform != entity.PlatformShopify {
		return nil, vendorscope.Scope{}, domain.ErrUnsupportedPlatform
	}
	if !conn.Active {
		return nil, vendorscope.Scope{}, domain.ErrConnectionInactive
	}
	scope, err := vendorscope.FromConnection(conn)
	if err != nil {
		return nil, vendorscope.Scope{}, err
	}
	return conn, scope, nil
}

// Run ejecuta una corrida completa y devuelve los contadores agregados.
// Precondiciones fallidas abortan sin registrar corrida; las fallas a mitad
// de camino quedan en SyncRun con su mensaje para consulta asíncrona.
func (o *Orchestrator) Run(ctx context.Context, connectionID string) (*entity.SyncStats, error) {
	conn, scope, err := o.Preflight(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	stats := entity.SyncStats{}
	started := time.Now()
	run := &entity.SyncRun{
		ID:           uuid.New().String(),
		ConnectionID: conn.ID,
		Status:       entity.SyncRunRunning,
		StartedAt:    started,
	}

	if scope.IsEmpty() {
		// alcance vacío: éxito con todo en cero y cero llamadas a la API
		run.Status = entity.SyncRunCompleted
		run.Message = "alcance de proveedores vacío, nada que sincronizar"
		now := time.Now()
		run.FinishedAt = &now
		if err := o.runs.Create(ctx, run); err != nil {
			return nil, err
		}
		return &stats, nil
	}

	if err := o.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	o.log.Info().
		Str("connection", conn.ID).
		Str("shop", conn.ShopDomain).
		Str("run", run.ID).
		Msg("sync iniciado")

	if err := o.execute(ctx, conn, scope, &stats); err != nil {
		now := time.Now()
		_ = o.runs.Finish(ctx, run.ID, entity.SyncRunFailed, err.Error(), stats, now)
		o.log.Error().Err(err).Str("run", run.ID).Msg("sync fallido")
		return &stats, err
	}

	now := time.Now()
	if err := o.runs.Finish(ctx, run.ID, entity.SyncRunCompleted, "", stats, now); err != nil {
		return &stats, err
	}
	if err := o.connections.StampLastSync(ctx, conn.ID, now); err != nil {
		return &stats, err
	}

	o.log.Info().
		Str("run", run.ID).
		Int("processed", stats.Processed).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("inventory_updated", stats.InventoryUpdated).
		Int("alerts_created", stats.AlertsCreated).
		Dur("elapsed", now.Sub(started)).
		Msg("sync completado")
	return &stats, nil
}

// execute corre los tres pasos. El inventario y las alertas toleran fallas
// por producto: un producto malo no bloquea las alertas de los demás.
func (o *Orchestrator) execute(ctx context.Context, conn *entity.Connection, scope vendorscope.Scope, stats *entity.SyncStats) error {
	if err := o.productRec.Reconcile(ctx, conn, scope.QueryFilter(), stats); err != nil {
		return err
	}

	syncable, err := o.products.ListSyncable(ctx, conn.ID)
	if err != nil {
		return err
	}
	for _, p := range syncable {
		if err := o.inventory.Reconcile(ctx, conn, p, stats); err != nil {
			stats.ItemErrors++
			o.log.Warn().Err(err).Str("sku", p.SKU).Msg("inventario no reconciliado, se continúa")
		}
	}

	// pasada de alertas sobre todos los productos vigentes de la conexión
	all, err := o.products.ListByConnection(ctx, conn.ID, 0, 0)
	if err != nil {
		return err
	}
	for _, p := range all {
		if p.Archived {
			continue
		}
		if err := o.alerts.ReconcileProduct(ctx, conn, p, stats); err != nil {
			stats.ItemErrors++
			o.log.Warn().Err(err).Str("sku", p.SKU).Msg("alerta no reconciliada, se continúa")
		}
	}
	return nil
}
