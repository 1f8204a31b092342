package empleado

import (
	"context"
	"database/sql"
	"errors"

	"go-planillas/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=empleado_repo.go -destination=mock/empleado_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindElegibles(ctx context.Context, empresaID, moneda, tipoPlanilla string) ([]Empleado, error)
	// GetSalarioBase returns the current base salary; found=false when the
	// employee row does not exist (not an error for callers that tally misses).
	GetSalarioBase(ctx context.Context, empleadoID string) (decimal.Decimal, bool, error)
	UpdateSalarioBase(ctx context.Context, empleadoID string, nuevo decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindElegibles(ctx context.Context, empresaID, moneda, tipoPlanilla string) ([]Empleado, error) {
	var empleados []Empleado
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(empresaID)).
		Where("activo = ?", true).
		Where("fecha_salida IS NULL").
		Where("moneda = ?", moneda).
		Where("tipo_planilla = ?", tipoPlanilla).
		Order("nombre ASC").
		Find(&empleados).Error
	return empleados, err
}

func (r *repository) GetSalarioBase(ctx context.Context, empleadoID string) (decimal.Decimal, bool, error) {
	var salario decimal.Decimal

	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx, `SELECT salario_base FROM empleados WHERE id = $1`, empleadoID)
		if err := row.Scan(&salario); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return decimal.Zero, false, nil
			}
			return decimal.Zero, false, err
		}
		return salario, true, nil
	}

	var emp Empleado
	err := r.db.WithContext(ctx).Select("salario_base").First(&emp, "id = ?", empleadoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return emp.SalarioBase, true, nil
}

func (r *repository) UpdateSalarioBase(ctx context.Context, empleadoID string, nuevo decimal.Decimal) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx,
			`UPDATE empleados SET salario_base = $2, updated_at = NOW() WHERE id = $1`,
			empleadoID, nuevo,
		)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	result := r.db.WithContext(ctx).
		Model(&Empleado{}).
		Where("id = ?", empleadoID).
		Update("salario_base", nuevo)
	return result.RowsAffected, result.Error
}
