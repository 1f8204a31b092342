package empleado_test

import (
	"context"
	"regexp"
	"testing"

	"go-planillas/internal/empleado"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmpleadoRepository_GetSalarioBase_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	empleadoID := uuid.New().String()

	t.Run("returns the current salary", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT salario_base FROM empleados")).
			WithArgs(empleadoID).
			WillReturnRows(sqlmock.NewRows([]string{"salario_base"}).AddRow("500000.0000"))
		mock.ExpectCommit()

		tx, err := db.BeginTx(context.Background(), nil)
		assert.NoError(t, err)

		repo := empleado.NewRepository(nil).WithTx(tx)
		salario, found, err := repo.GetSalarioBase(context.Background(), empleadoID)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.True(t, salario.Equal(decimal.NewFromInt(500000)))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is found=false, not an error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT salario_base FROM empleados")).
			WithArgs(empleadoID).
			WillReturnRows(sqlmock.NewRows([]string{"salario_base"}))
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		assert.NoError(t, err)
		defer tx.Rollback()

		repo := empleado.NewRepository(nil).WithTx(tx)
		_, found, err := repo.GetSalarioBase(context.Background(), empleadoID)

		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestEmpleadoRepository_UpdateSalarioBase_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	empleadoID := uuid.New().String()
	nuevo := decimal.RequireFromString("535000.00")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE empleados SET salario_base")).
		WithArgs(empleadoID, nuevo).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	repo := empleado.NewRepository(nil).WithTx(tx)
	filas, err := repo.UpdateSalarioBase(context.Background(), empleadoID, nuevo)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), filas)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
