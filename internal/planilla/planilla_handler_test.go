package planilla_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-planillas/internal/ajuste"
	"go-planillas/internal/planilla"
	planillaerrors "go-planillas/internal/planilla/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePlanillaService struct {
	listElegiblesFn func(ctx context.Context, empresaID, planillaID string, filtro planilla.ElegiblesFilterRequest, estadoAjustes string) ([]planilla.EmpleadoElegibleResponse, error)
	aprobarFn       func(ctx context.Context, empresaID, actorID, planillaID string) (planilla.TransicionResponse, error)
	procesarFn      func(ctx context.Context, empresaID, actorID, planillaID string) (planilla.ProcesamientoResponse, error)
	cancelarFn      func(ctx context.Context, empresaID, actorID, planillaID string) (planilla.TransicionResponse, error)
	upsertDetalleFn func(ctx context.Context, empresaID, planillaID string, req planilla.UpsertDetalleRequest) (planilla.DetalleResponse, error)
}

func (f *fakePlanillaService) ListElegibles(ctx context.Context, empresaID, planillaID string, filtro planilla.ElegiblesFilterRequest, estadoAjustes string) ([]planilla.EmpleadoElegibleResponse, error) {
	return f.listElegiblesFn(ctx, empresaID, planillaID, filtro, estadoAjustes)
}

func (f *fakePlanillaService) Aprobar(ctx context.Context, empresaID, actorID, planillaID string) (planilla.TransicionResponse, error) {
	return f.aprobarFn(ctx, empresaID, actorID, planillaID)
}

func (f *fakePlanillaService) Procesar(ctx context.Context, empresaID, actorID, planillaID string) (planilla.ProcesamientoResponse, error) {
	return f.procesarFn(ctx, empresaID, actorID, planillaID)
}

func (f *fakePlanillaService) Cancelar(ctx context.Context, empresaID, actorID, planillaID string) (planilla.TransicionResponse, error) {
	return f.cancelarFn(ctx, empresaID, actorID, planillaID)
}

func (f *fakePlanillaService) UpsertDetalle(ctx context.Context, empresaID, planillaID string, req planilla.UpsertDetalleRequest) (planilla.DetalleResponse, error) {
	return f.upsertDetalleFn(ctx, empresaID, planillaID, req)
}

func TestPlanillaHandler_ListElegibles(t *testing.T) {
	empresaID := uuid.New().String()
	planillaID := uuid.New().String()

	svc := &fakePlanillaService{
		listElegiblesFn: func(ctx context.Context, eid, pid string, filtro planilla.ElegiblesFilterRequest, estado string) ([]planilla.EmpleadoElegibleResponse, error) {
			assert.Equal(t, empresaID, eid)
			assert.Equal(t, planillaID, pid)
			assert.Equal(t, "CRC", filtro.Moneda)
			assert.Equal(t, "semanal", filtro.TipoPlanilla)
			assert.Equal(t, ajuste.EstadoPendiente, estado)
			return []planilla.EmpleadoElegibleResponse{
				{EmpleadoID: uuid.New().String(), Nombre: "Ana", SalarioBase: decimal.NewFromInt(500000)},
			}, nil
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/planillas/"+planillaID+"/elegibles?moneda=CRC&tipo_planilla=semanal", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: planillaID}}
	c.Set("empresa_id", empresaID)

	h.ListElegibles(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPlanillaHandler_ListElegiblesAprobados(t *testing.T) {
	planillaID := uuid.New().String()

	svc := &fakePlanillaService{
		listElegiblesFn: func(ctx context.Context, eid, pid string, filtro planilla.ElegiblesFilterRequest, estado string) ([]planilla.EmpleadoElegibleResponse, error) {
			assert.Equal(t, ajuste.EstadoAprobado, estado)
			return []planilla.EmpleadoElegibleResponse{}, nil
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/planillas/"+planillaID+"/elegibles/aprobados?moneda=USD&tipo_planilla=quincenal", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: planillaID}}
	c.Set("empresa_id", uuid.New().String())

	h.ListElegiblesAprobados(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanillaHandler_ListElegibles_MissingFilter(t *testing.T) {
	svc := &fakePlanillaService{}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/planillas/123/elegibles", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: "123"}}
	c.Set("empresa_id", uuid.New().String())

	h.ListElegibles(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestPlanillaHandler_Aprobar(t *testing.T) {
	empresaID := uuid.New().String()
	actorID := uuid.New().String()
	planillaID := uuid.New().String()

	svc := &fakePlanillaService{
		aprobarFn: func(ctx context.Context, eid, aid, pid string) (planilla.TransicionResponse, error) {
			assert.Equal(t, empresaID, eid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, planillaID, pid)
			return planilla.TransicionResponse{PlanillaID: pid, Estado: planilla.EstadoCerrada, FilasAfectadas: 1}, nil
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/planillas/"+planillaID+"/aprobar", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: planillaID}}
	c.Set("empresa_id", empresaID)
	c.Set("usuario_id", actorID)

	h.Aprobar(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var data planilla.TransicionResponse
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, planilla.EstadoCerrada, data.Estado)
}

func TestPlanillaHandler_Procesar_InvalidState(t *testing.T) {
	svc := &fakePlanillaService{
		procesarFn: func(ctx context.Context, eid, aid, pid string) (planilla.ProcesamientoResponse, error) {
			return planilla.ProcesamientoResponse{}, planillaerrors.ErrEstadoInvalido
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodPost, "/planillas/"+id+"/procesar", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: id}}
	c.Set("empresa_id", uuid.New().String())
	c.Set("usuario_id", uuid.New().String())

	h.Procesar(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestPlanillaHandler_Cancelar(t *testing.T) {
	planillaID := uuid.New().String()

	svc := &fakePlanillaService{
		cancelarFn: func(ctx context.Context, eid, aid, pid string) (planilla.TransicionResponse, error) {
			return planilla.TransicionResponse{PlanillaID: pid, Estado: planilla.EstadoCancelada, FilasAfectadas: 1}, nil
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/planillas/"+planillaID+"/cancelar", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: planillaID}}
	c.Set("empresa_id", uuid.New().String())
	c.Set("usuario_id", uuid.New().String())

	h.Cancelar(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanillaHandler_UpsertDetalle(t *testing.T) {
	empresaID := uuid.New().String()
	planillaID := uuid.New().String()
	empleadoID := uuid.New().String()

	svc := &fakePlanillaService{
		upsertDetalleFn: func(ctx context.Context, eid, pid string, req planilla.UpsertDetalleRequest) (planilla.DetalleResponse, error) {
			assert.Equal(t, empresaID, eid)
			assert.Equal(t, empleadoID, req.EmpleadoID)
			assert.True(t, req.Bruta.Equal(decimal.RequireFromString("125000.50")))
			return planilla.DetalleResponse{
				ID:         uuid.New().String(),
				EmpleadoID: req.EmpleadoID,
				PlanillaID: pid,
				Bruta:      req.Bruta,
				Estado:     "pendiente",
			}, nil
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"empleado_id":"` + empleadoID + `","semana":"2026-W35","bruta":"125000.50","neta":"112500.50"}`
	c.Request = httptest.NewRequest(http.MethodPut, "/planillas/"+planillaID+"/detalles", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "planillaID", Value: planillaID}}
	c.Set("empresa_id", empresaID)

	h.UpsertDetalle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPlanillaHandler_UpsertDetalle_MissingEmpleado(t *testing.T) {
	svc := &fakePlanillaService{}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/planillas/123/detalles", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "planillaID", Value: "123"}}
	c.Set("empresa_id", uuid.New().String())

	h.UpsertDetalle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestPlanillaHandler_InternalError(t *testing.T) {
	svc := &fakePlanillaService{
		listElegiblesFn: func(ctx context.Context, eid, pid string, filtro planilla.ElegiblesFilterRequest, estado string) ([]planilla.EmpleadoElegibleResponse, error) {
			return nil, errors.New("boom")
		},
	}

	h := planilla.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/planillas/123/elegibles?moneda=CRC&tipo_planilla=semanal", nil)
	c.Params = []gin.Param{{Key: "planillaID", Value: "123"}}
	c.Set("empresa_id", uuid.New().String())

	h.ListElegibles(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
