package planilla

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EstadoPendiente = "Pendiente"
	EstadoAprobado  = "Aprobado"
	EstadoProcesada = "Procesada"
	EstadoCerrada   = "Cerrada"
	EstadoCancelada = "Cancelada"
)

// Planilla is one payroll run for a company, currency and pay type over a
// date range. This module only mutates its estado: approval closes it,
// processing finalizes it, cancellation fans out to its adjustments.
type Planilla struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo       string    `gorm:"type:varchar(40);not null"`
	EmpresaID    uuid.UUID `gorm:"type:uuid;not null;index:idx_planilla_empresa_estado"`
	Moneda       string    `gorm:"type:varchar(3);not null"`
	TipoPlanilla string    `gorm:"type:varchar(20);not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'Pendiente';index:idx_planilla_empresa_estado"`
	FechaInicio  time.Time `gorm:"type:date;not null"`
	FechaFin     time.Time `gorm:"type:date;not null"`
	CreadoPor    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Planilla) TableName() string {
	return "planillas"
}

// PlanillaDetalle is the computed per-employee breakdown row. The composite
// key (empleado, empresa, planilla) admits exactly one row; writes for an
// existing key update in place.
type PlanillaDetalle struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_detalle_clave,priority:1"`
	EmpresaID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_detalle_clave,priority:2"`
	PlanillaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_detalle_clave,priority:3"`

	Semana string `gorm:"type:varchar(20)"`

	Bruta            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FCL              decimal.Decimal `gorm:"column:fcl;type:decimal(18,4);not null;default:0"`
	RebajosCliente   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Cuota            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RebajosOPU       decimal.Decimal `gorm:"column:rebajos_opu;type:decimal(18,4);not null;default:0"`
	ReintegroCliente decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReintegrosOPU    decimal.Decimal `gorm:"column:reintegros_opu;type:decimal(18,4);not null;default:0"`
	Deposito         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDeducciones decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalReintegros  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Neta             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Estado        string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CorreoEnviado string `gorm:"type:char(1);not null;default:'N'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlanillaDetalle) TableName() string {
	return "planilla_detalles"
}
