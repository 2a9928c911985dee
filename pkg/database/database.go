package database

import (
	"fmt"
	"time"

	"github.com/clinica-suite/patients-service/config"
	"github.com/clinica-suite/patients-service/internal/domain"
	"github.com/clinica-suite/patients-service/internal/domain/medication"
	"github.com/clinica-suite/patients-service/internal/domain/patient"
	"github.com/clinica-suite/patients-service/internal/domain/prescription"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "audit"}
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.AuditLog{},
		&patient.Patient{},
		&medication.Medication{},
		&prescription.Prescription{},
		&prescription.PrescriptionMedication{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db, log); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB, log *zap.Logger) error {
	// Uniqueness only holds among active rows; deactivated records keep
	// their values so the history stays intact.
	unique := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_patients_email_active
			ON clinical.patients (email) WHERE active AND email <> ''`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_prescription_medications_pair_active
			ON clinical.prescription_medications (prescription_id, medication_id) WHERE active`,
	}
	for _, q := range unique {
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}

	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error

	// Search indexes are best-effort; queries stay correct without them.
	search := []string{
		`CREATE INDEX IF NOT EXISTS idx_patients_name_trgm
			ON clinical.patients USING gin ((first_name || ' ' || last_name) gin_trgm_ops) WHERE active`,
		`CREATE INDEX IF NOT EXISTS idx_medications_name_trgm
			ON clinical.medications USING gin (medication_name gin_trgm_ops) WHERE active`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient
			ON clinical.prescriptions (patient_id) WHERE active`,
	}
	for _, q := range search {
		if err := db.Exec(q).Error; err != nil {
			log.Warn("skipping optional index", zap.Error(err))
		}
	}

	return nil
}
