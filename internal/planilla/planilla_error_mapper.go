package planilla

import (
	"errors"

	planillaerrors "go-planillas/internal/planilla/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return planillaerrors.ErrPlanillaNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505: the detail-line unique key raced a concurrent insert; the
		// upsert path makes this unreachable in practice but keep the mapping.
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_detalle_clave" {
			return planillaerrors.ErrEstadoInvalido
		}
	}

	return err
}

func mapDetalleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return planillaerrors.ErrDetalleNotFound
	}
	return mapRepositoryError(err)
}
