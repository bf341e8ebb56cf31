package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	appsync "github.com/jhoicas/stocksync-api/internal/application/sync"
	"github.com/jhoicas/stocksync-api/internal/domain"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// SyncHandler dispara corridas de sincronización y expone su historial.
type SyncHandler struct {
	orch *appsync.Orchestrator
	runs repository.SyncRunRepository
	log  *logger.Logger
}

// NewSyncHandler construye el handler.
func NewSyncHandler(orch *appsync.Orchestrator, runs repository.SyncRunRepository, log *logger.Logger) *SyncHandler {
	return &SyncHandler{orch: orch, runs: runs, log: log}
}

// Run godoc
// @Summary      Disparar una corrida de sync
// @Description  Valida precondiciones de forma síncrona y ejecuta la corrida
// @Description  en segundo plano; el desenlace se consulta en /api/sync/runs.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunSyncRequest  false  "connection_id (vacío: primera activa)"
// @Success      202   {object}  dto.RunSyncAccepted
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sync/run [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	var in dto.RunSyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	// precondiciones síncronas: el cliente se entera aquí, no en el historial
	conn, _, err := h.orch.Preflight(c.Context(), in.ConnectionID)
	if err != nil {
		switch err {
		case domain.ErrConnectionNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
		case domain.ErrConnectionInactive:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INACTIVE", Message: "la conexión está inactiva"})
		case domain.ErrSetupIncomplete:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SETUP_INCOMPLETE", Message: "registra la decisión de proveedores antes de sincronizar"})
		case domain.ErrUnsupportedPlatform:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNSUPPORTED", Message: "plataforma no soportada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	go func(connectionID string) {
		if _, err := h.orch.Run(context.Background(), connectionID); err != nil {
			h.log.Error().Err(err).Str("connection", connectionID).Msg("corrida en segundo plano fallida")
		}
	}(conn.ID)

	return c.Status(fiber.StatusAccepted).JSON(dto.RunSyncAccepted{
		ConnectionID: conn.ID,
		Status:       "accepted",
	})
}

// ListRuns godoc
// @Summary      Historial de corridas de una conexión
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        connection_id  query  string  true   "ID de la conexión"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SyncRunListResponse
// @Router       /api/sync/runs [get]
func (h *SyncHandler) ListRuns(c *fiber.Ctx) error {
	connectionID := c.Query("connection_id")
	if connectionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "connection_id es requerido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	runs, err := h.runs.ListByConnection(c.Context(), connectionID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.SyncRunListResponse{
		Items: make([]dto.SyncRunResponse, 0, len(runs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, r := range runs {
		out.Items = append(out.Items, dto.SyncRunResponse{
			ID:           r.ID,
			ConnectionID: r.ConnectionID,
			Status:       r.Status,
			Message:      r.Message,
			Stats:        r.Stats,
			StartedAt:    r.StartedAt,
			FinishedAt:   r.FinishedAt,
		})
	}
	return c.JSON(out)
}

// GetRun godoc
// @Summary      Obtener una corrida por ID
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la corrida"
// @Success      200  {object}  dto.SyncRunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/runs/{id} [get]
func (h *SyncHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.runs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "corrida no encontrada"})
	}
	return c.JSON(dto.SyncRunResponse{
		ID:           run.ID,
		ConnectionID: run.ConnectionID,
		Status:       run.Status,
		Message:      run.Message,
		Stats:        run.Stats,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	})
}
