package empleado

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Empleado struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index:idx_empleado_empresa"`
	Nombre    string    `gorm:"type:varchar(120);not null"`

	// Base salary is mutated by planilla processing; everything else on this
	// table is owned by the employee administration module.
	SalarioBase  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Moneda       string          `gorm:"type:varchar(3);not null"`
	TipoPlanilla string          `gorm:"type:varchar(20);not null"`

	Activo      bool       `gorm:"not null;default:true"`
	FechaSalida *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Empleado) TableName() string {
	return "empleados"
}
