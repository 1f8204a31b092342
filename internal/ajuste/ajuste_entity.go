package ajuste

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categoria identifies one of the four adjustment kinds. Each category lives
// in its own table but shares the same row shape and lifecycle.
type Categoria string

const (
	CategoriaAumento   Categoria = "aumento"
	CategoriaHoraExtra Categoria = "hora_extra"
	CategoriaMetrica   Categoria = "metrica"
	CategoriaRebajo    Categoria = "rebajo"
)

const (
	EstadoPendiente = "Pendiente"
	EstadoAprobado  = "Aprobado"
	EstadoProcesada = "Procesada"
	EstadoCancelado = "Cancelado"
	// EstadoAplicado still exists on historical aumento rows; treated as a
	// terminal synonym of Procesada on read, never written by this module.
	EstadoAplicado = "Aplicado"
)

// Ajuste is one pending adjustment for an employee within a planilla. An
// adjustment belongs to exactly one planilla and one employee, and only moves
// forward: Pendiente -> Aprobado -> Procesada, or to Cancelado when the
// planilla itself is cancelled.
type Ajuste struct {
	ID         uuid.UUID
	EmpleadoID uuid.UUID
	EmpresaID  uuid.UUID
	PlanillaID uuid.UUID
	Monto      decimal.Decimal
	Detalle    string
	Estado     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
