package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinichq/clinic-backend/internal/auth"
	"github.com/clinichq/clinic-backend/internal/clinical"
	"github.com/clinichq/clinic-backend/internal/iam"
	"github.com/clinichq/clinic-backend/internal/scheduling"
	"github.com/clinichq/clinic-backend/pkg/config"
	"github.com/clinichq/clinic-backend/pkg/database"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Connect to the database and ensure the schema exists
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.CreateSchema(ctx); err != nil {
		logger.Fatalf("Failed to create database schema: %v", err)
	}

	// Token authority and access gate
	authority := auth.NewAuthority(cfg.JWT.SecretKey, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenTTL)*time.Second)
	gate := auth.NewGate(authority, logger)

	// Repositories
	appointmentRepo := scheduling.NewAppointmentRepository(db, logger)
	doctorRepo := scheduling.NewDoctorRepository(db, logger)
	patientRepo := iam.NewPatientRepository(db, logger)
	adminRepo := iam.NewAdminRepository(db, logger)
	prescriptionRepo := clinical.NewPrescriptionRepository(db, logger)

	// Services
	identityService := iam.NewService(authority, adminRepo, doctorRepo, patientRepo, logger)
	schedulingService := scheduling.NewService(gate, appointmentRepo, doctorRepo, patientRepo, logger)
	clinicalService := clinical.NewService(gate, prescriptionRepo, appointmentRepo, logger)

	// HTTP routes
	router := mux.NewRouter()
	metrics := monitoring.NewMetricsCollector("clinic-server")
	router.Use(metrics.Middleware)
	router.Handle("/metrics", monitoring.Handler()).Methods("GET")
	iam.NewHandler(identityService, logger).RegisterRoutes(router)
	scheduling.NewHandler(schedulingService, logger).RegisterRoutes(router)
	clinical.NewHandler(clinicalService, logger).RegisterRoutes(router)
	router.HandleFunc("/api/v1/health", healthHandler(db)).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Starting clinic server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down clinic server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Clinic server stopped")
}

// healthHandler reports process and database health
func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := db.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	}
}
