package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinica-suite/patients-service/config"
	v1 "github.com/clinica-suite/patients-service/internal/handler/v1"
	"github.com/clinica-suite/patients-service/internal/mapper"
	"github.com/clinica-suite/patients-service/internal/repository"
	"github.com/clinica-suite/patients-service/internal/service"
	"github.com/clinica-suite/patients-service/pkg/database"
	"github.com/clinica-suite/patients-service/pkg/logger"
	"github.com/clinica-suite/patients-service/pkg/metrics"
	"github.com/clinica-suite/patients-service/pkg/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("patients_api", prometheus.DefaultRegisterer)
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	patientRepo := repository.NewPatientRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	audit := service.NewAuditService(auditRepo, collector, log)
	defer audit.Shutdown()

	patientSvc := service.NewPatientService(patientRepo, mapper.NewPatientMapper(log), audit, collector, log)
	medicationSvc := service.NewMedicationService(medicationRepo, mapper.NewMedicationMapper(log), audit, collector, log)
	prescriptionSvc := service.NewPrescriptionService(
		prescriptionRepo, patientRepo, medicationRepo,
		mapper.NewPrescriptionMapper(log), audit, collector, log,
	)

	router := v1.NewRouter(
		cfg, log, collector, db,
		v1.NewPatientHandler(patientSvc, prescriptionSvc),
		v1.NewMedicationHandler(medicationSvc),
		v1.NewPrescriptionHandler(prescriptionSvc),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
