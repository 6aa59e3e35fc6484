package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the clinic backend
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createAdminsTable,
		createDoctorsTable,
		createPatientsTable,
		createAppointmentsTable,
		createPrescriptionsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createAppointmentsIndexes,
		createDoctorsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	db.logger.Info("Database schema created")
	return nil
}

func (db *DB) createExtensions(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)
	return err
}

// SQL DDL statements for table creation
const (
	createAdminsTable = `
		CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDoctorsTable = `
		CREATE TABLE IF NOT EXISTS doctors (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(200) UNIQUE NOT NULL,
			specialty VARCHAR(100) NOT NULL,
			available_times TEXT[] NOT NULL DEFAULT '{}',
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(200) UNIQUE NOT NULL,
			phone VARCHAR(30),
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	// Slot uniqueness lives in the partial index below, not here: a
	// row with status 'canceled' must not hold its slot.
	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			doctor_id UUID NOT NULL REFERENCES doctors(id),
			patient_id UUID NOT NULL REFERENCES patients(id),
			appointment_time TIMESTAMP WITH TIME ZONE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'requested',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	// UNIQUE appointment_id enforces at most one prescription per
	// appointment. The cascade keeps appointment deletion (cancellation,
	// doctor removal) from being blocked by an attached prescription.
	createPrescriptionsTable = `
		CREATE TABLE IF NOT EXISTS prescriptions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			appointment_id UUID UNIQUE NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
			medication VARCHAR(200) NOT NULL,
			dosage VARCHAR(100),
			notes TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`
)

// SQL DDL statements for index creation
const (
	// The partial unique index is the race-breaker for concurrent
	// bookings: the application-level availability check is a fast
	// path, the index decides. It excludes canceled rows so a slot
	// freed by cancellation is bookable again.
	createAppointmentsIndexes = `
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointments_active_slot
			ON appointments(doctor_id, appointment_time) WHERE status <> 'canceled';
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor_time ON appointments(doctor_id, appointment_time);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);`

	createDoctorsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_doctors_specialty ON doctors(LOWER(specialty));`
)
