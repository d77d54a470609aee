package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintplan-backend/config"
	"maintplan-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Facility{},
		&model.Equipment{},
		&model.MaintenanceOccurrence{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	applyConstraintDDL(db)

	log.Println("Database initialization complete.")
	return db, nil
}

// applyConstraintDDL adds CHECK constraints AutoMigrate cannot express.
// Reruns fail on the duplicate constraint name; that is logged and ignored.
func applyConstraintDDL(db *gorm.DB) {
	ddls := []string{
		"ALTER TABLE maintenance_occurrences " +
			"ADD CONSTRAINT maintenance_occurrences_status_valid " +
			"CHECK (status IN ('pending', 'completed', 'overdue'));",

		"ALTER TABLE maintenance_occurrences " +
			"ADD CONSTRAINT maintenance_occurrences_year_valid " +
			"CHECK (year BETWEEN 2000 AND 2100);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			log.Printf("DDL execution warning (query: %q): %v", ddl, err)
		}
	}
}
