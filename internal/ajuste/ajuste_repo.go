package ajuste

import (
	"context"
	"database/sql"
	"fmt"
)

//go:generate mockgen -source=ajuste_repo.go -destination=mock/ajuste_repo_mock.go -package=mock
type Repository interface {
	Categoria() Categoria
	WithTx(tx *sql.Tx) Repository
	// ListByEstado fetches every adjustment of this category for the planilla
	// in one query; callers group by employee client-side.
	ListByEstado(ctx context.Context, planillaID, empresaID, estado string) ([]Ajuste, error)
	ListForEmpleado(ctx context.Context, planillaID, empresaID, empleadoID, estado string) ([]Ajuste, error)
	MarkAllApproved(ctx context.Context, planillaID string) (int64, error)
	MarkAllProcessed(ctx context.Context, planillaID string) (int64, error)
	MarkAllCancelled(ctx context.Context, planillaID string) (int64, error)
}

// Repos carries the four category repositories. EnOrden returns them in the
// order transitions must touch them (audit order, matching the review UI).
type Repos struct {
	Aumentos   Repository
	HorasExtra Repository
	Metricas   Repository
	Rebajos    Repository
}

func (r Repos) EnOrden() []Repository {
	return []Repository{r.Aumentos, r.HorasExtra, r.Metricas, r.Rebajos}
}

type repository struct {
	db        *sql.DB
	tx        *sql.Tx
	categoria Categoria
	tabla     string
}

func NewAumentoRepository(db *sql.DB) Repository {
	return &repository{db: db, categoria: CategoriaAumento, tabla: "aumentos"}
}

func NewHoraExtraRepository(db *sql.DB) Repository {
	return &repository{db: db, categoria: CategoriaHoraExtra, tabla: "horas_extra"}
}

func NewMetricaRepository(db *sql.DB) Repository {
	return &repository{db: db, categoria: CategoriaMetrica, tabla: "metricas"}
}

func NewRebajoRepository(db *sql.DB) Repository {
	return &repository{db: db, categoria: CategoriaRebajo, tabla: "rebajos"}
}

func (r *repository) Categoria() Categoria {
	return r.categoria
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx, categoria: r.categoria, tabla: r.tabla}
}

func (r *repository) ListByEstado(ctx context.Context, planillaID, empresaID, estado string) ([]Ajuste, error) {
	query := fmt.Sprintf(`
SELECT id, empleado_id, empresa_id, planilla_id, monto, COALESCE(detalle, ''), estado
FROM %s
WHERE planilla_id = $1 AND empresa_id = $2 AND estado = $3
ORDER BY created_at ASC
`, r.tabla)

	rows, err := r.queryer().QueryContext(ctx, query, planillaID, empresaID, estado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAjustes(rows)
}

func (r *repository) ListForEmpleado(ctx context.Context, planillaID, empresaID, empleadoID, estado string) ([]Ajuste, error) {
	query := fmt.Sprintf(`
SELECT id, empleado_id, empresa_id, planilla_id, monto, COALESCE(detalle, ''), estado
FROM %s
WHERE planilla_id = $1 AND empresa_id = $2 AND empleado_id = $3 AND estado = $4
ORDER BY created_at ASC
`, r.tabla)

	rows, err := r.queryer().QueryContext(ctx, query, planillaID, empresaID, empleadoID, estado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAjustes(rows)
}

// State flips are forward-only: each update is gated on the prior state so a
// cancelled or already-processed row is never pulled back into the flow.

func (r *repository) MarkAllApproved(ctx context.Context, planillaID string) (int64, error) {
	return r.updateEstado(ctx, planillaID, EstadoAprobado, EstadoPendiente)
}

func (r *repository) MarkAllProcessed(ctx context.Context, planillaID string) (int64, error) {
	return r.updateEstado(ctx, planillaID, EstadoProcesada, EstadoAprobado)
}

func (r *repository) MarkAllCancelled(ctx context.Context, planillaID string) (int64, error) {
	return r.updateEstado(ctx, planillaID, EstadoCancelado, EstadoPendiente, EstadoAprobado)
}

func (r *repository) updateEstado(ctx context.Context, planillaID, nuevo string, desde ...string) (int64, error) {
	query := fmt.Sprintf(`
UPDATE %s
SET estado = $1, updated_at = NOW()
WHERE planilla_id = $2 AND estado = ANY($3)
`, r.tabla)

	res, err := r.execer().ExecContext(ctx, query, nuevo, planillaID, pgArray(desde))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAjustes(rows *sql.Rows) ([]Ajuste, error) {
	var ajustes []Ajuste
	for rows.Next() {
		var a Ajuste
		if err := rows.Scan(
			&a.ID,
			&a.EmpleadoID,
			&a.EmpresaID,
			&a.PlanillaID,
			&a.Monto,
			&a.Detalle,
			&a.Estado,
		); err != nil {
			return nil, err
		}
		ajustes = append(ajustes, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ajustes, nil
}

// pgArray renders a text[] literal; the estado values are fixed constants,
// never user input.
func pgArray(values []string) string {
	out := "{"
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += v
	}
	return out + "}"
}

func (r *repository) queryer() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
