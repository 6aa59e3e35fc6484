package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-backend/pkg/logger"
)

func TestCreateSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{DB: sqlDB, logger: logger.New("error")}

	done := sqlmock.NewResult(0, 0)
	mock.ExpectExec("uuid-ossp").WillReturnResult(done)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS admins").WillReturnResult(done)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS doctors").WillReturnResult(done)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS patients").WillReturnResult(done)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS appointments").WillReturnResult(done)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS prescriptions").WillReturnResult(done)
	mock.ExpectExec("uniq_appointments_active_slot").WillReturnResult(done)
	mock.ExpectExec("idx_doctors_specialty").WillReturnResult(done)

	require.NoError(t, db.CreateSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaSlotUniqueness(t *testing.T) {
	t.Run("slot uniqueness excludes canceled rows", func(t *testing.T) {
		assert.Contains(t, createAppointmentsIndexes, "CREATE UNIQUE INDEX")
		assert.Contains(t, createAppointmentsIndexes, "WHERE status <> 'canceled'")
	})

	t.Run("the appointments table carries no unconditional slot constraint", func(t *testing.T) {
		assert.NotContains(t, createAppointmentsTable, "UNIQUE")
	})
}
