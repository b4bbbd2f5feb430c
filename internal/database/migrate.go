package database

import (
	"context"
	"fmt"
	"time"

	"projecthub/internal/observability"

	"gorm.io/gorm"
)

// SchemaVersion is bumped whenever PersistentModels changes shape.
const SchemaVersion = 1

// MigrationLog represents a record of an applied schema version.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// SchemaStatus summarizes what Migrate would do.
type SchemaStatus struct {
	Driver          string
	CurrentVersion  int
	AppliedVersions []int
	Pending         bool
}

// Migrate creates or updates every table in PersistentModels and records
// SchemaVersion. Running it twice is harmless.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	entry := MigrationLog{Version: SchemaVersion, Name: "models"}
	if err := db.WithContext(ctx).
		Where(MigrationLog{Version: SchemaVersion}).
		FirstOrCreate(&entry).Error; err != nil {
		return fmt.Errorf("failed to record migration %d: %w", SchemaVersion, err)
	}

	observability.Ctx(ctx).Info().Int("version", SchemaVersion).Msg("Database migration completed")
	return nil
}

// GetSchemaStatus reports the applied schema versions without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB) (*SchemaStatus, error) {
	status := &SchemaStatus{
		Driver:         db.Dialector.Name(),
		CurrentVersion: SchemaVersion,
	}

	if !db.Migrator().HasTable(&MigrationLog{}) {
		status.Pending = true
		return status, nil
	}

	var versions []int
	if err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	status.AppliedVersions = versions
	status.Pending = len(versions) == 0 || versions[len(versions)-1] < SchemaVersion
	return status, nil
}
