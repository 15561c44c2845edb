package postgres

import (
	"fmt"
	"time"

	"navigator/internal/logger"
	"navigator/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the global database connection
var DB *gorm.DB

// Init opens the database connection, migrates the schema and sets the global DB variable
func Init(url string) (*gorm.DB, error) {
	// Configure GORM logger with higher slow SQL threshold
	gormLogger := gormlogger.New(
		zap.NewStdLog(logger.L().Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.AutoMigrate(&model.RoutePG{}); err != nil {
		return nil, fmt.Errorf("migrate routes: %w", err)
	}

	DB = db
	logger.L().Info("Successfully connected to PostgreSQL")
	return db, nil
}

// GetDB returns the global database connection
func GetDB() *gorm.DB {
	return DB
}

// Close closes the underlying connection pool
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	logger.L().Info("Closing PostgreSQL connection...")
	return sqlDB.Close()
}
