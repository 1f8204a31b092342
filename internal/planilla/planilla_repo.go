package planilla

import (
	"context"
	"database/sql"
	"strings"

	"go-planillas/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=planilla_repo.go -destination=mock/planilla_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDAndEmpresa(ctx context.Context, empresaID, id string) (*Planilla, error)
	// UpdateEstadoIf flips the planilla state only when the current state is
	// one of desde. Zero affected rows means the planilla was not in an
	// expected state (missing, or already transitioned by a concurrent call).
	UpdateEstadoIf(ctx context.Context, id, nuevo string, desde ...string) (int64, error)
	UpsertDetalle(ctx context.Context, detalle *PlanillaDetalle) error
	FindDetalle(ctx context.Context, empresaID, planillaID, empleadoID string) (*PlanillaDetalle, error)
	MarkDetallesNotificados(ctx context.Context, planillaID string) (int64, error)
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

func (r *repository) FindByIDAndEmpresa(ctx context.Context, empresaID, id string) (*Planilla, error) {
	var pl Planilla
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(empresaID)).
		First(&pl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (r *repository) UpdateEstadoIf(ctx context.Context, id, nuevo string, desde ...string) (int64, error) {
	query := `
UPDATE planillas
SET estado = $1, updated_at = NOW()
WHERE id = $2 AND estado = ANY($3)
`

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, nuevo, id, pgTextArray(desde))
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	result := r.db.WithContext(ctx).Exec(query, nuevo, id, pgTextArray(desde))
	return result.RowsAffected, result.Error
}

// UpsertDetalle writes the full detail line for its composite key: insert on
// first sight, in-place update after. Re-deriving every column from the given
// figures keeps the operation safe to retry.
func (r *repository) UpsertDetalle(ctx context.Context, detalle *PlanillaDetalle) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO planilla_detalles (
    id, empleado_id, empresa_id, planilla_id, semana,
    bruta, fcl, rebajos_cliente, cuota, rebajos_opu,
    reintegro_cliente, reintegros_opu, deposito,
    total_deducciones, total_reintegros, neta,
    estado, correo_enviado, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pendiente', 'N', NOW(), NOW())
ON CONFLICT (empleado_id, empresa_id, planilla_id) DO UPDATE SET
    semana = EXCLUDED.semana,
    bruta = EXCLUDED.bruta,
    fcl = EXCLUDED.fcl,
    rebajos_cliente = EXCLUDED.rebajos_cliente,
    cuota = EXCLUDED.cuota,
    rebajos_opu = EXCLUDED.rebajos_opu,
    reintegro_cliente = EXCLUDED.reintegro_cliente,
    reintegros_opu = EXCLUDED.reintegros_opu,
    deposito = EXCLUDED.deposito,
    total_deducciones = EXCLUDED.total_deducciones,
    total_reintegros = EXCLUDED.total_reintegros,
    neta = EXCLUDED.neta,
    estado = 'pendiente',
    updated_at = NOW()
`,
		detalle.ID, detalle.EmpleadoID, detalle.EmpresaID, detalle.PlanillaID, detalle.Semana,
		detalle.Bruta, detalle.FCL, detalle.RebajosCliente, detalle.Cuota, detalle.RebajosOPU,
		detalle.ReintegroCliente, detalle.ReintegrosOPU, detalle.Deposito,
		detalle.TotalDeducciones, detalle.TotalReintegros, detalle.Neta,
	).Error
}

func (r *repository) FindDetalle(ctx context.Context, empresaID, planillaID, empleadoID string) (*PlanillaDetalle, error) {
	var detalle PlanillaDetalle
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(empresaID)).
		Where("planilla_id = ?", planillaID).
		Where("empleado_id = ?", empleadoID).
		First(&detalle).Error
	if err != nil {
		return nil, err
	}
	return &detalle, nil
}

func (r *repository) MarkDetallesNotificados(ctx context.Context, planillaID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&PlanillaDetalle{}).
		Where("planilla_id = ?", planillaID).
		Where("correo_enviado = ?", "N").
		Update("correo_enviado", "S")
	return result.RowsAffected, result.Error
}

// pgTextArray renders a text[] literal for estado constants.
func pgTextArray(values []string) string {
	return "{" + strings.Join(values, ",") + "}"
}
