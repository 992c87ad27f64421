package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"hospital-queue-backend/config"
	"hospital-queue-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Department{},
		&model.Patient{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// SeedDepartments upserts the configured department set. Runs on every
// start so config changes to names or averages take effect; department
// rows are never removed.
func SeedDepartments(db *gorm.DB, departments []config.DepartmentConfig) error {
	if len(departments) == 0 {
		return fmt.Errorf("department set must not be empty")
	}

	rows := make([]model.Department, 0, len(departments))
	for _, d := range departments {
		rows = append(rows, model.Department{
			ID:                    d.ID,
			Name:                  d.Name,
			Description:           d.Description,
			AverageServiceMinutes: d.AverageServiceMinutes,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "average_service_minutes", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}

	log.Printf("Seeded %d departments", len(rows))
	return nil
}
