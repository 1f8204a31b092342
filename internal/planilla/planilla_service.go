package planilla

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go-planillas/internal/ajuste"
	"go-planillas/internal/empleado"
	"go-planillas/internal/events"
	"go-planillas/internal/messaging/kafka"
	planillaerrors "go-planillas/internal/planilla/errors"
	"go-planillas/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=planilla_service.go -destination=mock/planilla_service_mock.go -package=mock
type Service interface {
	// ListElegibles returns the eligible employees of a planilla with their
	// adjustments in estadoAjustes (Pendiente for the pre-approval review,
	// Aprobado for the pre-processing cross-check).
	ListElegibles(ctx context.Context, empresaID, planillaID string, filtro ElegiblesFilterRequest, estadoAjustes string) ([]EmpleadoElegibleResponse, error)
	Aprobar(ctx context.Context, empresaID, actorID, planillaID string) (TransicionResponse, error)
	Procesar(ctx context.Context, empresaID, actorID, planillaID string) (ProcesamientoResponse, error)
	Cancelar(ctx context.Context, empresaID, actorID, planillaID string) (TransicionResponse, error)
	UpsertDetalle(ctx context.Context, empresaID, planillaID string, req UpsertDetalleRequest) (DetalleResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	empleados empleado.Repository
	ajustes   ajuste.Repos
	outbox    kafka.OutboxRepository
	sf        *singleflight.Group
}

func NewService(db *sql.DB, repo Repository, empleados empleado.Repository, ajustes ajuste.Repos) Service {
	return &service{
		db:        db,
		repo:      repo,
		empleados: empleados,
		ajustes:   ajustes,
		sf:        &singleflight.Group{},
	}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	empleados empleado.Repository,
	ajustes ajuste.Repos,
	outbox kafka.OutboxRepository,
) Service {
	return &service{
		db:        db,
		repo:      repo,
		empleados: empleados,
		ajustes:   ajustes,
		outbox:    outbox,
		sf:        &singleflight.Group{},
	}
}

func (s *service) ListElegibles(
	ctx context.Context,
	empresaID, planillaID string,
	filtro ElegiblesFilterRequest,
	estadoAjustes string,
) ([]EmpleadoElegibleResponse, error) {
	if _, err := uuid.Parse(empresaID); err != nil {
		return nil, planillaerrors.ErrInvalidEmpresaID
	}
	if _, err := uuid.Parse(planillaID); err != nil {
		return nil, planillaerrors.ErrInvalidPlanillaID
	}
	if estadoAjustes != ajuste.EstadoPendiente && estadoAjustes != ajuste.EstadoAprobado {
		return nil, planillaerrors.ErrFiltroEstadoInvalido
	}

	if _, err := s.repo.FindByIDAndEmpresa(ctx, empresaID, planillaID); err != nil {
		return nil, mapRepositoryError(err)
	}

	// Coalesce identical concurrent listings; operators tend to refresh the
	// review screen while a run is being prepared.
	key := fmt.Sprintf("elegibles:%s:%s:%s:%s:%s",
		empresaID, planillaID, filtro.Moneda, filtro.TipoPlanilla, estadoAjustes)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		empleados, err := s.empleados.FindElegibles(ctx, empresaID, filtro.Moneda, filtro.TipoPlanilla)
		if err != nil {
			return nil, err
		}

		porCategoria := s.listAjustesAgrupados(ctx, planillaID, empresaID, estadoAjustes)

		resp := make([]EmpleadoElegibleResponse, 0, len(empleados))
		for _, emp := range empleados {
			id := emp.ID.String()
			resp = append(resp, EmpleadoElegibleResponse{
				EmpleadoID:   id,
				Nombre:       emp.Nombre,
				SalarioBase:  emp.SalarioBase,
				Moneda:       emp.Moneda,
				TipoPlanilla: emp.TipoPlanilla,
				Aumentos:     orEmpty(porCategoria[ajuste.CategoriaAumento][id]),
				HorasExtra:   orEmpty(porCategoria[ajuste.CategoriaHoraExtra][id]),
				BonosMetrica: orEmpty(porCategoria[ajuste.CategoriaMetrica][id]),
				Rebajos:      orEmpty(porCategoria[ajuste.CategoriaRebajo][id]),
			})
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmpleadoElegibleResponse), nil
}

// listAjustesAgrupados issues one query per category across all employees and
// groups the rows by employee id, bounding the query count regardless of how
// many employees the planilla covers. The four reads are independent and run
// in parallel. A failing category yields empty lists for that category only;
// the listing itself never fails on it.
func (s *service) listAjustesAgrupados(
	ctx context.Context,
	planillaID, empresaID, estado string,
) map[ajuste.Categoria]map[string][]AjusteResponse {
	repos := s.ajustes.EnOrden()
	listados := make([][]ajuste.Ajuste, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo ajuste.Repository) {
			defer wg.Done()
			rows, err := repo.ListByEstado(ctx, planillaID, empresaID, estado)
			if err != nil {
				contextutil.GetLogger(ctx, zap.L()).Warn("listado de ajustes failed",
					zap.String("categoria", string(repo.Categoria())),
					zap.String("planilla_id", planillaID),
					zap.Error(err),
				)
				return
			}
			listados[i] = rows
		}(i, repo)
	}
	wg.Wait()

	agrupados := make(map[ajuste.Categoria]map[string][]AjusteResponse, len(repos))
	for i, repo := range repos {
		porEmpleado := make(map[string][]AjusteResponse)
		for _, a := range listados[i] {
			id := a.EmpleadoID.String()
			porEmpleado[id] = append(porEmpleado[id], AjusteResponse{
				ID:         a.ID.String(),
				EmpleadoID: id,
				Monto:      a.Monto,
				Detalle:    a.Detalle,
				Estado:     a.Estado,
			})
		}
		agrupados[repo.Categoria()] = porEmpleado
	}
	return agrupados
}

// Aprobar marks every adjustment of the planilla Aprobado and closes the
// planilla, as one transaction. The closing flip is conditional on the
// planilla still being Pendiente; zero affected rows rolls everything back.
func (s *service) Aprobar(
	ctx context.Context,
	empresaID, actorID, planillaID string,
) (TransicionResponse, error) {
	if err := validarIDs(empresaID, actorID, planillaID); err != nil {
		return TransicionResponse{}, err
	}

	if _, err := s.repo.FindByIDAndEmpresa(ctx, empresaID, planillaID); err != nil {
		return TransicionResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransicionResponse{}, err
	}
	defer tx.Rollback()

	for _, repo := range s.ajustes.EnOrden() {
		if _, err := repo.WithTx(tx).MarkAllApproved(ctx, planillaID); err != nil {
			return TransicionResponse{}, err
		}
	}

	afectadas, err := s.repo.WithTx(tx).UpdateEstadoIf(ctx, planillaID, EstadoCerrada, EstadoPendiente)
	if err != nil {
		return TransicionResponse{}, err
	}
	if afectadas == 0 {
		return TransicionResponse{}, planillaerrors.ErrEstadoInvalido
	}

	if s.outbox != nil {
		event := events.PlanillaAprobadaEvent{
			EventType:  "planilla_aprobada",
			PlanillaID: planillaID,
			EmpresaID:  empresaID,
			AprobadaBy: actorID,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.encolarEvento(ctx, tx, events.PlanillaAprobadaTopic, event.EventType, planillaID, event); err != nil {
			return TransicionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return TransicionResponse{}, err
	}

	return TransicionResponse{
		PlanillaID:     planillaID,
		Estado:         EstadoCerrada,
		FilasAfectadas: afectadas,
	}, nil
}

// Procesar applies approved raises to base salaries, marks every adjustment
// category Procesada and finalizes the planilla, as one transaction. Only
// raises still Aprobado are summed, and the final flip is conditional, so a
// repeated or concurrent call finds nothing to apply and fails the flip
// instead of doubling salaries.
func (s *service) Procesar(
	ctx context.Context,
	empresaID, actorID, planillaID string,
) (ProcesamientoResponse, error) {
	if err := validarIDs(empresaID, actorID, planillaID); err != nil {
		return ProcesamientoResponse{}, err
	}

	if _, err := s.repo.FindByIDAndEmpresa(ctx, empresaID, planillaID); err != nil {
		return ProcesamientoResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProcesamientoResponse{}, err
	}
	defer tx.Rollback()

	tally, err := s.aplicarAumentos(ctx, tx, empresaID, planillaID)
	if err != nil {
		return ProcesamientoResponse{}, err
	}

	for _, repo := range s.ajustes.EnOrden() {
		if _, err := repo.WithTx(tx).MarkAllProcessed(ctx, planillaID); err != nil {
			return ProcesamientoResponse{}, err
		}
	}

	afectadas, err := s.repo.WithTx(tx).UpdateEstadoIf(ctx, planillaID, EstadoProcesada, EstadoCerrada, EstadoAprobado)
	if err != nil {
		return ProcesamientoResponse{}, err
	}
	if afectadas == 0 {
		return ProcesamientoResponse{}, planillaerrors.ErrEstadoInvalido
	}

	if s.outbox != nil {
		event := events.PlanillaProcesadaEvent{
			EventType:             "planilla_procesada",
			PlanillaID:            planillaID,
			EmpresaID:             empresaID,
			ProcesadaBy:           actorID,
			EmpleadosActualizados: tally.EmpleadosActualizados,
			Errores:               tally.Errores,
			OccurredAt:            time.Now().UTC(),
		}
		if err := s.encolarEvento(ctx, tx, events.PlanillaProcesadaTopic, event.EventType, planillaID, event); err != nil {
			return ProcesamientoResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ProcesamientoResponse{}, err
	}

	return ProcesamientoResponse{
		PlanillaID:     planillaID,
		Estado:         EstadoProcesada,
		FilasAfectadas: afectadas,
		Aumentos:       tally,
	}, nil
}

// aplicarAumentos sums approved raises per employee and persists the new base
// salaries. A raise pointing at a missing employee is tallied and skipped so
// one bad reference never sinks the whole run; the caller surfaces the tally.
func (s *service) aplicarAumentos(
	ctx context.Context,
	tx *sql.Tx,
	empresaID, planillaID string,
) (AumentosProcesadosResponse, error) {
	log := contextutil.GetLogger(ctx, zap.L())

	aumentos, err := s.ajustes.Aumentos.WithTx(tx).ListByEstado(ctx, planillaID, empresaID, ajuste.EstadoAprobado)
	if err != nil {
		return AumentosProcesadosResponse{}, err
	}

	totales := make(map[string]decimal.Decimal)
	var orden []string
	for _, a := range aumentos {
		id := a.EmpleadoID.String()
		if _, visto := totales[id]; !visto {
			orden = append(orden, id)
		}
		totales[id] = totales[id].Add(a.Monto)
	}

	empleados := s.empleados.WithTx(tx)
	tally := AumentosProcesadosResponse{}

	for _, empleadoID := range orden {
		total := totales[empleadoID]
		if total.IsZero() {
			continue
		}

		salario, found, err := empleados.GetSalarioBase(ctx, empleadoID)
		if err != nil {
			return AumentosProcesadosResponse{}, err
		}
		if !found {
			tally.Errores++
			tally.DetalleErrores = append(tally.DetalleErrores,
				fmt.Sprintf("empleado %s no existe", empleadoID))
			log.Warn("aumento references missing empleado",
				zap.String("planilla_id", planillaID),
				zap.String("empleado_id", empleadoID),
			)
			continue
		}

		filas, err := empleados.UpdateSalarioBase(ctx, empleadoID, salario.Add(total))
		if err != nil {
			return AumentosProcesadosResponse{}, err
		}
		if filas == 0 {
			tally.Errores++
			tally.DetalleErrores = append(tally.DetalleErrores,
				fmt.Sprintf("salario de empleado %s no actualizado", empleadoID))
			continue
		}

		tally.EmpleadosActualizados++
	}

	return tally, nil
}

// Cancelar voids the planilla and fans the cancellation out to every
// adjustment category still in flight.
func (s *service) Cancelar(
	ctx context.Context,
	empresaID, actorID, planillaID string,
) (TransicionResponse, error) {
	if err := validarIDs(empresaID, actorID, planillaID); err != nil {
		return TransicionResponse{}, err
	}

	if _, err := s.repo.FindByIDAndEmpresa(ctx, empresaID, planillaID); err != nil {
		return TransicionResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransicionResponse{}, err
	}
	defer tx.Rollback()

	for _, repo := range s.ajustes.EnOrden() {
		if _, err := repo.WithTx(tx).MarkAllCancelled(ctx, planillaID); err != nil {
			return TransicionResponse{}, err
		}
	}

	afectadas, err := s.repo.WithTx(tx).UpdateEstadoIf(ctx, planillaID, EstadoCancelada,
		EstadoPendiente, EstadoAprobado, EstadoCerrada)
	if err != nil {
		return TransicionResponse{}, err
	}
	if afectadas == 0 {
		return TransicionResponse{}, planillaerrors.ErrEstadoInvalido
	}

	if err := tx.Commit(); err != nil {
		return TransicionResponse{}, err
	}

	return TransicionResponse{
		PlanillaID:     planillaID,
		Estado:         EstadoCancelada,
		FilasAfectadas: afectadas,
	}, nil
}

func (s *service) UpsertDetalle(
	ctx context.Context,
	empresaID, planillaID string,
	req UpsertDetalleRequest,
) (DetalleResponse, error) {
	empresaUUID, err := uuid.Parse(empresaID)
	if err != nil {
		return DetalleResponse{}, planillaerrors.ErrInvalidEmpresaID
	}
	planillaUUID, err := uuid.Parse(planillaID)
	if err != nil {
		return DetalleResponse{}, planillaerrors.ErrInvalidPlanillaID
	}
	empleadoUUID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return DetalleResponse{}, planillaerrors.ErrInvalidEmpleadoID
	}

	if _, err := s.repo.FindByIDAndEmpresa(ctx, empresaID, planillaID); err != nil {
		return DetalleResponse{}, mapRepositoryError(err)
	}

	detalle := &PlanillaDetalle{
		ID:               uuid.New(),
		EmpleadoID:       empleadoUUID,
		EmpresaID:        empresaUUID,
		PlanillaID:       planillaUUID,
		Semana:           req.Semana,
		Bruta:            req.Bruta,
		FCL:              req.FCL,
		RebajosCliente:   req.RebajosCliente,
		Cuota:            req.Cuota,
		RebajosOPU:       req.RebajosOPU,
		ReintegroCliente: req.ReintegroCliente,
		ReintegrosOPU:    req.ReintegrosOPU,
		Deposito:         req.Deposito,
		TotalDeducciones: req.TotalDeducciones,
		TotalReintegros:  req.TotalReintegros,
		Neta:             req.Neta,
	}

	if err := s.repo.UpsertDetalle(ctx, detalle); err != nil {
		return DetalleResponse{}, mapRepositoryError(err)
	}

	// Re-read so the response reflects the persisted row (the stored id is
	// the original one when the write hit an existing key).
	persistido, err := s.repo.FindDetalle(ctx, empresaID, planillaID, req.EmpleadoID)
	if err != nil {
		return DetalleResponse{}, mapDetalleError(err)
	}

	return mapDetalleToResponse(*persistido), nil
}

func (s *service) encolarEvento(
	ctx context.Context,
	tx *sql.Tx,
	topic, eventType, aggregateID string,
	payload any,
) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "planilla",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       data,
		Status:        kafka.OutboxStatusPending,
	}

	return s.outbox.WithTx(tx).Create(ctx, event)
}

// orEmpty keeps JSON arrays over nulls for categories with no rows.
func orEmpty(list []AjusteResponse) []AjusteResponse {
	if list == nil {
		return []AjusteResponse{}
	}
	return list
}

func validarIDs(empresaID, actorID, planillaID string) error {
	if _, err := uuid.Parse(empresaID); err != nil {
		return planillaerrors.ErrInvalidEmpresaID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return planillaerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(planillaID); err != nil {
		return planillaerrors.ErrInvalidPlanillaID
	}
	return nil
}

func mapDetalleToResponse(d PlanillaDetalle) DetalleResponse {
	return DetalleResponse{
		ID:               d.ID.String(),
		EmpleadoID:       d.EmpleadoID.String(),
		EmpresaID:        d.EmpresaID.String(),
		PlanillaID:       d.PlanillaID.String(),
		Semana:           d.Semana,
		Bruta:            d.Bruta,
		FCL:              d.FCL,
		RebajosCliente:   d.RebajosCliente,
		Cuota:            d.Cuota,
		RebajosOPU:       d.RebajosOPU,
		ReintegroCliente: d.ReintegroCliente,
		ReintegrosOPU:    d.ReintegrosOPU,
		Deposito:         d.Deposito,
		TotalDeducciones: d.TotalDeducciones,
		TotalReintegros:  d.TotalReintegros,
		Neta:             d.Neta,
		Estado:           d.Estado,
		CorreoEnviado:    d.CorreoEnviado,
	}
}
