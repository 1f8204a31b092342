package planillaerrors

import (
	"net/http"

	"go-planillas/internal/shared/apperror"
)

var (
	ErrInvalidEmpresaID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid empresa id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPlanillaID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid planilla id",
		http.StatusBadRequest,
	)
	ErrInvalidEmpleadoID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid empleado id",
		http.StatusBadRequest,
	)
	ErrPlanillaNotFound = apperror.New(
		apperror.CodeNotFound,
		"planilla not found",
		http.StatusNotFound,
	)
	ErrEstadoInvalido = apperror.New(
		apperror.CodeInvalidState,
		"planilla is not in the expected state for this transition",
		http.StatusConflict,
	)
	ErrFiltroEstadoInvalido = apperror.New(
		apperror.CodeInvalidInput,
		"estado filter must be Pendiente or Aprobado",
		http.StatusBadRequest,
	)
	ErrDetalleNotFound = apperror.New(
		apperror.CodeNotFound,
		"planilla detail line not found",
		http.StatusNotFound,
	)
)
