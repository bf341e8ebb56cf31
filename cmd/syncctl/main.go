// syncctl dispara una corrida de sincronización desde la línea de comandos,
// sin pasar por la API HTTP. Útil para cron y para operar sin dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
	"github.com/jhoicas/stocksync-api/pkg/config"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

func main() {
	connectionID := flag.String("connection", "", "ID de la conexión (vacío: primera activa)")
	timeout := flag.Duration("timeout", 30*time.Minute, "tiempo máximo de la corrida")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	client := shopify.NewClient(cfg.Shopify.APIVersion, cfg.Sync.MaxRetries)
	orchestrator := appsync.NewOrchestrator(
		postgres.NewConnectionRepository(pool),
		postgres.NewProductRepository(pool),
		postgres.NewInventoryLevelRepository(pool),
		postgres.NewAlertRepository(pool),
		postgres.NewSyncRunRepository(pool),
		shopify.NewGateway(client),
		log,
		appsync.Config{
			PageSize:         cfg.Sync.PageSize,
			MaxPages:         cfg.Sync.MaxPages,
			DefaultThreshold: cfg.Sync.DefaultThreshold,
		},
	)

	stats, err := orchestrator.Run(ctx, *connectionID)
	if err != nil {
		log.Fatal().Err(err).Msg("corrida fallida")
	}
	fmt.Printf("procesados=%d creados=%d actualizados=%d conflictos=%d stock=%d alertas+%d alertas-%d api=%d errores=%d\n",
		stats.Processed, stats.Created, stats.Updated, stats.Conflicts,
		stats.InventoryUpdated, stats.AlertsCreated, stats.AlertsResolved,
		stats.APICalls, stats.ItemErrors,
	)
}
