package planilla

import (
	"encoding/json"
	"net/http"
	"time"

	"go-planillas/internal/ajuste"
	"go-planillas/internal/shared/apperror"
	"go-planillas/internal/shared/contextutil"
	"go-planillas/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
	rdb *redis.Client
}

func NewHandler(svc Service, rdb *redis.Client) *Handler {
	return &Handler{svc: svc, rdb: rdb}
}

// GET /api/v1/planillas/:planillaID/elegibles?moneda=CRC&tipo_planilla=semanal
func (h *Handler) ListElegibles(c *gin.Context) {
	h.listElegibles(c, ajuste.EstadoPendiente)
}

// GET /api/v1/planillas/:planillaID/elegibles/aprobados?moneda=CRC&tipo_planilla=semanal
func (h *Handler) ListElegiblesAprobados(c *gin.Context) {
	h.listElegibles(c, ajuste.EstadoAprobado)
}

func (h *Handler) listElegibles(c *gin.Context, estadoAjustes string) {
	var filtro ElegiblesFilterRequest
	if err := c.ShouldBindQuery(&filtro); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	empresaID := c.GetString("empresa_id")
	planillaID := c.Param("planillaID")

	elegibles, err := h.svc.ListElegibles(c.Request.Context(), empresaID, planillaID, filtro, estadoAjustes)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, elegibles, nil)
}

// POST /api/v1/planillas/:planillaID/aprobar
func (h *Handler) Aprobar(c *gin.Context) {
	empresaID := c.GetString("empresa_id")
	actorID := c.GetString("usuario_id")
	planillaID := c.Param("planillaID")

	res, err := h.svc.Aprobar(c.Request.Context(), empresaID, actorID, planillaID)
	if err != nil {
		h.releaseIdempotencyLock(c)
		writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, res)
	response.Success(c, http.StatusOK, res, nil)
}

// POST /api/v1/planillas/:planillaID/procesar
func (h *Handler) Procesar(c *gin.Context) {
	empresaID := c.GetString("empresa_id")
	actorID := c.GetString("usuario_id")
	planillaID := c.Param("planillaID")

	res, err := h.svc.Procesar(c.Request.Context(), empresaID, actorID, planillaID)
	if err != nil {
		h.releaseIdempotencyLock(c)
		writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, res)
	response.Success(c, http.StatusOK, res, nil)
}

// POST /api/v1/planillas/:planillaID/cancelar
func (h *Handler) Cancelar(c *gin.Context) {
	empresaID := c.GetString("empresa_id")
	actorID := c.GetString("usuario_id")
	planillaID := c.Param("planillaID")

	res, err := h.svc.Cancelar(c.Request.Context(), empresaID, actorID, planillaID)
	if err != nil {
		h.releaseIdempotencyLock(c)
		writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, res)
	response.Success(c, http.StatusOK, res, nil)
}

// PUT /api/v1/planillas/:planillaID/detalles
func (h *Handler) UpsertDetalle(c *gin.Context) {
	var req UpsertDetalleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	empresaID := c.GetString("empresa_id")
	planillaID := c.Param("planillaID")

	res, err := h.svc.UpsertDetalle(c.Request.Context(), empresaID, planillaID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

// finishIdempotent caches the successful result under the idempotency key and
// releases the in-flight lock, if the request carried one.
func (h *Handler) finishIdempotent(c *gin.Context, result any) {
	if h.rdb == nil {
		return
	}

	cacheKey := c.GetString("idempotency_cache_key")
	lockKey := c.GetString("idempotency_lock_key")
	if cacheKey == "" {
		return
	}

	ctx := c.Request.Context()
	if data, err := json.Marshal(result); err == nil {
		h.rdb.Set(ctx, cacheKey, data, 24*time.Hour)
	}
	if lockKey != "" {
		h.rdb.Del(ctx, lockKey)
	}
}

// releaseIdempotencyLock frees the lock on failure so the client can retry
// with the same key.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}

	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)

	if httpErr.Status >= http.StatusInternalServerError {
		contextutil.GetLogger(c.Request.Context(), zap.L()).Error("planilla request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
