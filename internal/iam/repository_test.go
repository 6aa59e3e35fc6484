package iam

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-backend/pkg/database"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

func setupTestRepositoryDB(t *testing.T) (*database.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := &database.DB{DB: sqlDB}
	cleanup := func() {
		sqlDB.Close()
	}

	return db, mock, cleanup
}

func TestAdminRepository_GetByUsername(t *testing.T) {
	t.Run("returns the stored admin", func(t *testing.T) {
		db, mock, cleanup := setupTestRepositoryDB(t)
		defer cleanup()
		repo := NewAdminRepository(db, logger.New("error"))

		mock.ExpectQuery("FROM admins").
			WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow("admin-1", "root", "hash", time.Now()))

		admin, err := repo.GetByUsername(context.Background(), "root")
		require.NoError(t, err)
		assert.Equal(t, "admin-1", admin.ID)
		assert.Equal(t, "root", admin.Username)
	})

	t.Run("missing admin carries the admin not-found code", func(t *testing.T) {
		db, mock, cleanup := setupTestRepositoryDB(t)
		defer cleanup()
		repo := NewAdminRepository(db, logger.New("error"))

		mock.ExpectQuery("FROM admins").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

		admin, err := repo.GetByUsername(context.Background(), "missing")
		assert.Nil(t, admin)
		assert.True(t, types.IsType(err, types.ErrorTypeNotFound))

		var clinicErr *types.ClinicError
		require.ErrorAs(t, err, &clinicErr)
		assert.Equal(t, types.ErrCodeAdminNotFound, clinicErr.Code)
	})
}

func TestPatientRepository_GetByEmail(t *testing.T) {
	t.Run("missing patient carries the patient not-found code", func(t *testing.T) {
		db, mock, cleanup := setupTestRepositoryDB(t)
		defer cleanup()
		repo := NewPatientRepository(db, logger.New("error"))

		mock.ExpectQuery("FROM patients").
			WithArgs("missing@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "created_at"}))

		patient, err := repo.GetByEmail(context.Background(), "missing@example.com")
		assert.Nil(t, patient)

		var clinicErr *types.ClinicError
		require.ErrorAs(t, err, &clinicErr)
		assert.Equal(t, types.ErrCodePatientNotFound, clinicErr.Code)
	})
}
